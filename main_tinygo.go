//go:build tinygo

package main

import (
	"context"

	"dualjoy/app"
	"dualjoy/hal"
)

func main() {
	h := hal.New()
	a, err := app.New(h, app.DefaultConfig())
	if err != nil {
		h.Logger().WriteLineString("main: " + err.Error())
		select {}
	}
	_ = a.Run(context.Background())
	select {}
}
