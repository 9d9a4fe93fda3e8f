// Command crudkit serves and manages the inventory demo resource.
package main

import "github.com/mesh-intelligence/crudkit/internal/cli"

func main() {
	cli.Execute()
}
