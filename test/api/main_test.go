//go:build api

// Package api contains API integration tests for the teamwork service.
// These tests run against real MongoDB, Redis, and MinIO instances using testcontainers.
//
// Run tests with:
//
//	go test -tags=api -v ./test/api/...
package api

import (
	"context"
	"log"
	"os"
	"testing"

	"teamwork/internal/validator"
	"teamwork/test/api/testserver"
)

// testServer is the global test server instance shared across all tests.
var testServer *testserver.TestServer

// TestMain sets up the test server and runs all tests.
func TestMain(m *testing.M) {
	if err := validator.RegisterCustomValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	ctx := context.Background()

	log.Println("Starting test containers...")
	var err error
	testServer, err = testserver.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create test server: %v", err)
	}
	log.Println("Test containers started successfully")

	code := m.Run()

	log.Println("Stopping test containers...")
	testServer.Cleanup(ctx)
	log.Println("Test containers stopped")

	os.Exit(code)
}
