package main

import "github.com/jrsteele09/go-auth-client/cmd/authcli/cmd"

func main() {
	cmd.Execute()
}
