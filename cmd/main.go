package main

import "github.com/danilofalcao/coder-gateway/internal/cmd"

func main() {
	cmd.Run()
}
