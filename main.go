// Public domain.

package main

import "github.com/fieldviz/fieldviz/internal/vizprog"

func main() {
	vizprog.Main()
}
