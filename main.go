package main

import "github.com/jfmyers9/imgsrc/cmd"

func main() {
	cmd.Execute()
}
