package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ExtractionServiceName = "docextract.v1.ExtractionService"
	extractFullMethod     = "/" + ExtractionServiceName + "/Extract"
	processFileFullMethod = "/" + ExtractionServiceName + "/ProcessFile"
	getJobFullMethod      = "/" + ExtractionServiceName + "/GetJob"
)

// ExtractionServer is the server API for docextract.v1.ExtractionService.
// Messages are google.protobuf.Struct so clients need no generated stubs.
type ExtractionServer interface {
	// Extract runs the extractor for {kind, text} and returns the record.
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ProcessFile reads {kind, path} on the server and stores an extract_job.
	ProcessFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// GetJob returns a stored extract_job by {job_id}.
	GetJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterExtractionServer(s grpc.ServiceRegistrar, srv ExtractionServer) {
	s.RegisterService(&ExtractionServiceDesc, srv)
}

func unaryHandler(fullMethod string, call func(ExtractionServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExtractionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExtractionServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ExtractionServiceDesc = grpc.ServiceDesc{
	ServiceName: ExtractionServiceName,
	HandlerType: (*ExtractionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: unaryHandler(extractFullMethod, ExtractionServer.Extract)},
		{MethodName: "ProcessFile", Handler: unaryHandler(processFileFullMethod, ExtractionServer.ProcessFile)},
		{MethodName: "GetJob", Handler: unaryHandler(getJobFullMethod, ExtractionServer.GetJob)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "docextract/v1/extraction.proto",
}

// ExtractionClient calls docextract.v1.ExtractionService.
type ExtractionClient struct {
	cc grpc.ClientConnInterface
}

func NewExtractionClient(cc grpc.ClientConnInterface) *ExtractionClient {
	return &ExtractionClient{cc: cc}
}

func (c *ExtractionClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ExtractionClient) Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, extractFullMethod, in, opts...)
}

func (c *ExtractionClient) ProcessFile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, processFileFullMethod, in, opts...)
}

func (c *ExtractionClient) GetJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, getJobFullMethod, in, opts...)
}
