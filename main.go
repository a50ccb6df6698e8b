package main

import "github.com/GitUser-3-2-3/Semi-Git/cmd"

func main() {
	cmd.Execute()
}
