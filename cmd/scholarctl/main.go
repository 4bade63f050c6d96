// Command scholarctl runs maintenance tasks against the ScholarPath database.
package main

func main() {
	Execute()
}
