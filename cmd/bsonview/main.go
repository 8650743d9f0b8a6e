/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/bsonview/cmd/bsonview/cmd"

func main() {
	cmd.Execute()
}
