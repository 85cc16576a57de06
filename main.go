package main

import "github.com/khrees2412/mockprep/cmd"

func main() {
	cmd.Execute()
}
