package main

import (
	"flag"
	"fmt"
	"os"

	"shulepro/app/config"
	"shulepro/app/database"
	"shulepro/app/models"
)

// Creates the first admin account. Credentials come from flags so
// nothing sensitive ends up in the binary or in version control.
//
//	go run ./app/cmd/addadmin -email admin@school.ac.ke -password <pw> -first Jane -last Mwangi
func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (min 8 characters)")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" || *lastName == "" {
		fmt.Println("All of -email, -password, -first and -last are required")
		flag.Usage()
		os.Exit(1)
	}
	if len(*password) < 8 {
		fmt.Println("Password must be at least 8 characters")
		os.Exit(1)
	}

	config.Load()
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	user := &models.User{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
	}

	if err := database.CreateUser(db, user, models.RoleAdmin); err != nil {
		fmt.Printf("Error creating admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin created successfully: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
