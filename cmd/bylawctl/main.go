// Command bylawctl structures bylaws documents from the command line and
// inspects what the server has stored.
package main

func main() {
	Execute()
}
