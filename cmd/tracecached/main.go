/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/mradosav-amd/cache/cmd/tracecached/cmd"
	"github.com/mradosav-amd/cache/pkg/di"
)

func main() {
	container := di.NewContainer(nil)
	cmd.SetContainer(container)
	cmd.Execute()
}
