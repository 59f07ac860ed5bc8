package main

import "account-pool-system.com/account-pool-system/cmd"

func main() {
	cmd.Execute()
}
