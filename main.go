/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/shelflog/appserver/cmd"

func main() {
	cmd.Execute()
}
