// Command hashpw reads the admin password from stdin and prints the value for
// auth.adminPasswordHash.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"cloudburst/internal/infra/auth"
)

func main() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "read password:", err)
		os.Exit(1)
	}

	hash, err := auth.NewBcryptHasher().Hash(strings.TrimRight(line, "\r\n"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
