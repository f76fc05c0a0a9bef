package server

//go:generate swag init -g internal/server/swagger.go -o internal/server/docs

// @title PhishGuard API
// @version 0.1
// @description Scanner sessions, detection history and dashboard data for the PhishGuard console.
// @contact.name PhishGuard Maintainers
// @contact.url https://github.com/raysh454/phishguard
// @BasePath /
