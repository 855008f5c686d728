// Command tupm is a terminal client for UPMv3 password databases,
// compatible with the original Java Universal Password Manager's
// on-disk format and HTTP sync protocol.
package main

import "github.com/simmons/tupm/cmd/tupm/cmd"

func main() {
	cmd.Execute()
}
