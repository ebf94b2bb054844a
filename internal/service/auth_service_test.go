package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/chamabot/internal/auth"
	"github.com/mmynk/chamabot/internal/middleware"
)

func TestLoginAndRequireAuth(t *testing.T) {
	hash, err := auth.HashPassword("harambee123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	jwtManager := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)

	chamaClient, _ := setupTestServer(t, &recordingGateway{},
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)))

	authPath, authHandler := NewAuthServiceHandler(NewAuthService(
		auth.NewPasswordAuthenticator("treasurer", hash), jwtManager, discardLogger))
	mux := http.NewServeMux()
	mux.Handle(authPath, authHandler)
	authServer := httptest.NewServer(mux)
	defer authServer.Close()
	authClient := NewAuthServiceClient(http.DefaultClient, authServer.URL)

	ctx := context.Background()

	_, err = chamaClient.ListMembers(ctx, connect.NewRequest(&ListMembersRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected Unauthenticated without token, got %v", err)
	}

	_, err = authClient.Login(ctx, connect.NewRequest(&LoginRequest{Username: "treasurer", Password: "nope-nope"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated for wrong password, got %v", err)
	}

	_, err = authClient.Login(ctx, connect.NewRequest(&LoginRequest{Username: "treasurer"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for missing password, got %v", err)
	}

	login, err := authClient.Login(ctx, connect.NewRequest(&LoginRequest{Username: "treasurer", Password: "harambee123"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.Token == "" {
		t.Fatal("expected a token")
	}

	req := connect.NewRequest(&ListMembersRequest{})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	if _, err := chamaClient.ListMembers(ctx, req); err != nil {
		t.Errorf("expected authenticated call to succeed, got %v", err)
	}

	req = connect.NewRequest(&ListMembersRequest{})
	req.Header().Set("Authorization", "Token "+login.Msg.Token)
	_, err = chamaClient.ListMembers(ctx, req)
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated for malformed header, got %v", err)
	}
}
