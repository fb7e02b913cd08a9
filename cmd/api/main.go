package main

import (
	"log"

	config "github.com/anjiri1684/skill_assessment/configs"
	"github.com/anjiri1684/skill_assessment/database"
	"github.com/anjiri1684/skill_assessment/handlers"
	"github.com/anjiri1684/skill_assessment/routes"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("🔥 Invalid configuration: %v", err)
	}

	db, err := database.Connect(settings.DBDriver, settings.DatabaseURL)
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connected successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	log.Println("✅ Database migration successful")

	if err := database.SeedAdmin(db, settings); err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}

	app := routes.NewApp(handlers.New(db, settings))

	log.Printf("✅ Server is running on port %s", settings.Port)
	if err := app.Listen(":" + settings.Port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
