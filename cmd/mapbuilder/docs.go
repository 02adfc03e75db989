package main

// General API documentation for swaggo. Run
// `swag init -g cmd/mapbuilder/docs.go -o docs` to regenerate docs/.
//
// @title           mapbuilder API
// @version         0.1.0
// @description     Drives a map lifecycle: replace the active map from a document, inspect it and adjust layers, sources and images.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @schemes http
