package main

import (
	"github.com/TykTechnologies/kvrouter/gateway"
)

func main() {
	gateway.Start()
}
