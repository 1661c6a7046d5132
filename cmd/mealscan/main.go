package main

import "meal_backend/cmd/mealscan/cmd"

func main() {
	cmd.Execute()
}
