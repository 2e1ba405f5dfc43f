// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/remote"
)

type fakeGateway struct {
	invoke func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func (f *fakeGateway) Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.invoke(ctx, req)
}

func startGateway(t *testing.T, gw GatewayServer) Session {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterGatewayServer(srv, gw)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	s, err := Open(context.Background(), Options{
		Endpoint:          "insecure://passthrough:///bufnet",
		UserPrincipalName: "admin@contoso.com",
		Token:             "token-123",
		Transport:         "grpc",
		Timeout:           5 * time.Second,
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGRPC_InvokeRoundTrip(t *testing.T) {
	gw := &fakeGateway{invoke: func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, []string{"Bearer token-123"}, md.Get("authorization"))
		assert.Equal(t, []string{"UPN:admin@contoso.com"}, md.Get("x-anchor-mailbox"))
		assert.Len(t, md.Get("client-request-id"), 1)

		fields := req.GetFields()
		assert.Equal(t, "Test-TextExtraction", fields["cmdlet"].GetStringValue())
		params := fields["parameters"].GetStructValue().GetFields()
		assert.Equal(t, "AQI=", params["FileData"].GetStringValue())
		assert.Equal(t, "#Binary", params["FileData@odata.type"].GetStringValue())

		return structpb.NewStruct(map[string]interface{}{
			"results": []interface{}{
				map[string]interface{}{
					"Name":               "Default",
					"Payload":            "PFJ1bGVzLz4=",
					"Payload@odata.type": "#Binary",
				},
				"scalar",
			},
		})
	}}
	s := startGateway(t, gw)

	results, err := s.Invoke(context.Background(), "Test-TextExtraction",
		remote.NewObject().Set("FileData", remote.Bytes([]byte{1, 2})))
	require.NoError(t, err)
	require.Len(t, results, 2)

	payload, ok := results[0].Get("Payload").AsBytes()
	require.True(t, ok)
	assert.Equal(t, "<Rules/>", string(payload))
	assert.Equal(t, []string{"Name", "Payload"}, results[0].Names())
	assert.Equal(t, "scalar", results[1].Get("Value").Text())
}

func TestGRPC_StatusErrorIsRemote(t *testing.T) {
	s := startGateway(t, &fakeGateway{invoke: func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
		return nil, status.Error(codes.PermissionDenied, "Access denied")
	}})

	_, err := s.Invoke(context.Background(), "Get-DlpSensitiveInformationTypeRulePackage", nil)
	require.Error(t, err)
	assert.Equal(t, failure.KindRemoteService, failure.KindOf(err))
	assert.Contains(t, err.Error(), "Access denied (PermissionDenied)")
	assert.Equal(t, failure.CategoryAuthentication, failure.ClassifyRemote(err))
}

func TestGRPC_ErrorField(t *testing.T) {
	s := startGateway(t, &fakeGateway{invoke: func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
		return structpb.NewStruct(map[string]interface{}{
			"error": map[string]interface{}{"code": "NotFound", "message": "The object couldn't be found"},
		})
	}})

	_, err := s.Invoke(context.Background(), "Get-DlpSensitiveInformationTypeRulePackage", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The object couldn't be found (NotFound)")
}

func TestGRPC_EmptyResults(t *testing.T) {
	s := startGateway(t, &fakeGateway{invoke: func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
		return &structpb.Struct{}, nil
	}})

	results, err := s.Invoke(context.Background(), "New-DlpKeywordDictionary", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOpen_GRPCDialFailureReturnsNilSession(t *testing.T) {
	s, err := Open(context.Background(), Options{
		Endpoint:          "insecure://gateway%zz",
		UserPrincipalName: "admin@contoso.com",
		Token:             "token-123",
		Transport:         "grpc",
	})
	require.Error(t, err)
	assert.Equal(t, failure.KindRemoteService, failure.KindOf(err))
	assert.True(t, s == nil, "session must be a nil interface, got %T", s)
}
