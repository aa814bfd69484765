package main

import "github.com/unkn0wn-root/recframe/cmd/recframe/cmd"

func main() {
	cmd.Execute()
}
