// Command todolist serves and edits a flat JSON todo list.
package main

import "github.com/twiced-technology-gmbh/todolist/cmd"

func main() {
	cmd.Execute()
}
