// Command delugian lists MIDI inputs, follows the held chord on one of them,
// and serves the engine over HTTP.
package main

func main() {
	Execute()
}
