// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/observability"
	"compliance-tools/internal/remote"
	"compliance-tools/internal/version"
)

// Gateway method and message fields. Requests and responses are
// google.protobuf.Struct so no generated stubs are needed.
const (
	GatewayServiceName = "compliance.v1.CommandGateway"
	gatewayInvoke      = "/" + GatewayServiceName + "/Invoke"

	fieldCmdlet     = "cmdlet"
	fieldParameters = "parameters"
	fieldResults    = "results"
	fieldError      = "error"
)

// GatewayServer is the server side of the command gateway.
type GatewayServer interface {
	Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func gatewayInvokeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: gatewayInvoke,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GatewayServer).Invoke(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GatewayServiceDesc describes the command gateway service.
var GatewayServiceDesc = grpc.ServiceDesc{
	ServiceName: GatewayServiceName,
	HandlerType: (*GatewayServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Invoke",
			Handler:    gatewayInvokeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "compliance/v1/gateway.proto",
}

// RegisterGatewayServer registers srv with s.
func RegisterGatewayServer(s grpc.ServiceRegistrar, srv GatewayServer) {
	s.RegisterService(&GatewayServiceDesc, srv)
}

// grpcSession runs cmdlets through a command gateway.
type grpcSession struct {
	conn     *grpc.ClientConn
	opts     Options
	observer *observability.StandardObserver
}

// dialGateway connects to the gateway. Endpoints prefixed with
// "insecure://" skip TLS, which is only meant for local gateways.
func dialGateway(ctx context.Context, opts Options) (*grpcSession, error) {
	target := opts.Endpoint
	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if rest, ok := strings.CutPrefix(target, "insecure://"); ok {
		target = rest
		creds = insecure.NewCredentials()
	}
	target = strings.TrimPrefix(target, "grpc://")

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithUserAgent(version.UserAgent()),
	}, opts.DialOptions...)
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, failure.Remote("connect", fmt.Errorf("dial %s: %w", target, err))
	}
	return &grpcSession{
		conn:     conn,
		opts:     opts,
		observer: observability.NewStandardObserver(opts.Logger),
	}, nil
}

func (s *grpcSession) Invoke(ctx context.Context, cmdlet string, params *remote.Object) ([]*remote.Object, error) {
	ctx, cancel := withTimeout(ctx, s.opts.Timeout)
	defer cancel()

	req, err := structpb.NewStruct(map[string]interface{}{
		fieldCmdlet:     cmdlet,
		fieldParameters: params.ToMap(),
	})
	if err != nil {
		return nil, failure.Remote(cmdlet, fmt.Errorf("encode request: %w", err))
	}

	reqID := uuid.New().String()
	ctx = metadata.AppendToOutgoingContext(ctx,
		"authorization", "Bearer "+s.opts.Token,
		"x-anchor-mailbox", "UPN:"+s.opts.UserPrincipalName,
		"client-request-id", reqID,
	)

	done := s.observer.StartTiming("session.grpc", cmdlet, reqID)
	resp := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, gatewayInvoke, req, resp); err != nil {
		done(false, map[string]interface{}{"code": status.Code(err).String()})
		return nil, failure.Remote(cmdlet, grpcError(err))
	}

	if msg, ok := structError(resp); ok {
		done(false, nil)
		return nil, failure.Remote(cmdlet, errors.New(msg))
	}

	var results []*remote.Object
	for _, v := range resp.GetFields()[fieldResults].GetListValue().GetValues() {
		if st := v.GetStructValue(); st != nil {
			results = append(results, remote.FromMap(st.AsMap()))
			continue
		}
		results = append(results, remote.FromMap(map[string]interface{}{"Value": v.AsInterface()}))
	}
	done(true, map[string]interface{}{"results": len(results)})
	return results, nil
}

func (s *grpcSession) Close() error {
	return s.conn.Close()
}

// grpcError keeps the service message and drops the gRPC framing.
func grpcError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Message() == "" {
		return errors.New(st.Code().String())
	}
	return fmt.Errorf("%s (%s)", st.Message(), st.Code())
}

func structError(resp *structpb.Struct) (string, bool) {
	v, ok := resp.GetFields()[fieldError]
	if !ok {
		return "", false
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "", false
	case *structpb.Value_StringValue:
		if kind.StringValue == "" {
			return "", false
		}
		return kind.StringValue, true
	case *structpb.Value_StructValue:
		fields := kind.StructValue.GetFields()
		return describeError(fields["message"].GetStringValue(), fields["code"].GetStringValue()), true
	}
	return v.String(), true
}
