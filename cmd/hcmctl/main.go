// Command hcmctl runs the console's identity operations from a terminal.
package main

func main() {
	Execute()
}
