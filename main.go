package main

import "github.com/ankurdental/dentaldesk/cmd"

func main() {
	cmd.Execute()
}
