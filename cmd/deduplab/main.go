// Copyright © 2018 One Concern

package main

import "github.com/oneconcern/deduplab/cmd/deduplab/cmd"

func main() {
	cmd.Execute()
}
