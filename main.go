package main

import "github.com/linesmerrill/report-designer-api/cmd"

func main() {
	cmd.Execute()
}
