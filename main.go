package main

import "github.com/ValentinKolb/rod/cmd"

func main() {
	cmd.Execute()
}
