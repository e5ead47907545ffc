package main

import "github.com/naka-gawa/github-leaderboard-badge/cmd"

func main() {
	cmd.Execute()
}
