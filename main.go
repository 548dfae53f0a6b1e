// SPDX-License-Identifier: GPL-3.0-only
package main

import "github.com/bascanada/seclog/cmd"

func main() {
	cmd.Execute()
}
