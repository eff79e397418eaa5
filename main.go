package main

import "github.com/killallgit/media-gateway/cmd"

// @title           Media Gateway API
// @version         1.0.0
// @description     Relays images, audio and video to hosted inference APIs and returns normalized JSON
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/media-gateway
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
