package grpc

// proto.go defines the gRPC server interface for bib.amortization.v1.AmortizationService.
// Messages travel through the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "bib.amortization.v1.AmortizationService"

// Full method names, as seen by interceptors.
const (
	MethodCalculateSchedule  = "/" + serviceName + "/CalculateSchedule"
	MethodComputeAPR         = "/" + serviceName + "/ComputeAPR"
	MethodSaveBenchmarkRates = "/" + serviceName + "/SaveBenchmarkRates"
	MethodGetBenchmarkRates  = "/" + serviceName + "/GetBenchmarkRates"
)

// AmortizationServiceServer is the server API for AmortizationService.
type AmortizationServiceServer interface {
	CalculateSchedule(context.Context, *CalculateScheduleRequest) (*CalculateScheduleResponse, error)
	ComputeAPR(context.Context, *ComputeAPRRequest) (*ComputeAPRResponse, error)
	SaveBenchmarkRates(context.Context, *SaveBenchmarkRatesRequest) (*SaveBenchmarkRatesResponse, error)
	GetBenchmarkRates(context.Context, *GetBenchmarkRatesRequest) (*GetBenchmarkRatesResponse, error)
	mustEmbedUnimplementedAmortizationServiceServer()
}

// UnimplementedAmortizationServiceServer provides forward-compatible default implementations.
type UnimplementedAmortizationServiceServer struct{}

func (UnimplementedAmortizationServiceServer) CalculateSchedule(context.Context, *CalculateScheduleRequest) (*CalculateScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CalculateSchedule not implemented")
}
func (UnimplementedAmortizationServiceServer) ComputeAPR(context.Context, *ComputeAPRRequest) (*ComputeAPRResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ComputeAPR not implemented")
}
func (UnimplementedAmortizationServiceServer) SaveBenchmarkRates(context.Context, *SaveBenchmarkRatesRequest) (*SaveBenchmarkRatesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SaveBenchmarkRates not implemented")
}
func (UnimplementedAmortizationServiceServer) GetBenchmarkRates(context.Context, *GetBenchmarkRatesRequest) (*GetBenchmarkRatesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBenchmarkRates not implemented")
}
func (UnimplementedAmortizationServiceServer) mustEmbedUnimplementedAmortizationServiceServer() {}

// RegisterAmortizationServiceServer registers the AmortizationServiceServer with the gRPC server.
func RegisterAmortizationServiceServer(s grpclib.ServiceRegistrar, srv AmortizationServiceServer) {
	s.RegisterService(&_AmortizationService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _AmortizationService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AmortizationServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CalculateSchedule", Handler: _AmortizationService_CalculateSchedule_Handler},   //nolint:revive // gRPC handler registration
		{MethodName: "ComputeAPR", Handler: _AmortizationService_ComputeAPR_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "SaveBenchmarkRates", Handler: _AmortizationService_SaveBenchmarkRates_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetBenchmarkRates", Handler: _AmortizationService_GetBenchmarkRates_Handler},   //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _AmortizationService_CalculateSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(CalculateScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AmortizationServiceServer).CalculateSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodCalculateSchedule}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AmortizationServiceServer).CalculateSchedule(ctx, req.(*CalculateScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _AmortizationService_ComputeAPR_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ComputeAPRRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AmortizationServiceServer).ComputeAPR(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodComputeAPR}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AmortizationServiceServer).ComputeAPR(ctx, req.(*ComputeAPRRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _AmortizationService_SaveBenchmarkRates_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(SaveBenchmarkRatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AmortizationServiceServer).SaveBenchmarkRates(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodSaveBenchmarkRates}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AmortizationServiceServer).SaveBenchmarkRates(ctx, req.(*SaveBenchmarkRatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _AmortizationService_GetBenchmarkRates_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBenchmarkRatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AmortizationServiceServer).GetBenchmarkRates(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetBenchmarkRates}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AmortizationServiceServer).GetBenchmarkRates(ctx, req.(*GetBenchmarkRatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}
