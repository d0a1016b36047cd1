package main

import "github.com/langpack/mod-lang-updater/cmd"

func main() {
	cmd.Execute()
}
