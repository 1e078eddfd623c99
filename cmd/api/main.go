package main

import (
	_ "github.com/joho/godotenv/autoload"

	_ "github.com/yankele13-cmyk/gaddoors-sub000/docs"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/http/routes"
)

// @title           Gad Doors Order Ledger API
// @version         1.0
// @description     Order financial ledger (orders + payments) backed by DynamoDB.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
