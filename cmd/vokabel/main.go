// Command vokabel is the terminal front end of the vocabulary trainer.
package main

import "github.com/phrazzld/vokabel/cmd/vokabel/cmd"

func main() {
	cmd.Execute()
}
