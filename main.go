// Command kouan is a terminal storyboard.
package main

import "github.com/papapumpkin/kouan/cmd"

func main() {
	cmd.Execute()
}
