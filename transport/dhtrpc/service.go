// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package dhtrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/erigontech/dhtstore/protocol/message"
)

// Dispatcher is satisfied by rpc.Server; kept as a narrow interface so
// this package never imports the rpc package directly (the transport
// binding is a leaf, per Erigon's gointerfaces layering).
type Dispatcher interface {
	Dispatch(msg *message.Message) *message.Response
}

// ServiceName is the gRPC service name this binding exposes, following
// the "<module>.<Service>" convention Erigon uses for its internal
// gointerfaces services.
const ServiceName = "dhtstore.StorageRPC"

// ServiceDesc is the hand-written equivalent of a generated
// grpc.ServiceDesc: a single bidirectional-looking unary method carrying
// the whole opcode space, framed as an opaque BytesValue so the transport
// never needs a per-opcode .proto message.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Dispatcher)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: invokeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dhtstore/storage_rpc.proto",
}

func invokeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	d := srv.(Dispatcher)
	if interceptor == nil {
		return invoke(d, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Invoke"}
	handler := func(_ context.Context, req interface{}) (interface{}, error) {
		return invoke(d, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func invoke(d Dispatcher, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	msg, err := DecodeMessage(in.GetValue())
	if err != nil {
		return nil, err
	}
	resp := d.Dispatch(msg)
	out, err := EncodeResponse(resp)
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bytes(out), nil
}

// RegisterStorageRPCServer registers d against s.
func RegisterStorageRPCServer(s *grpc.Server, d Dispatcher) {
	s.RegisterService(&ServiceDesc, d)
}

// StorageRPCClient is a thin hand-written client stub over a
// grpc.ClientConnInterface, mirroring what protoc-gen-go-grpc would emit
// for the single-method ServiceDesc above.
type StorageRPCClient struct {
	cc grpc.ClientConnInterface
}

func NewStorageRPCClient(cc grpc.ClientConnInterface) *StorageRPCClient {
	return &StorageRPCClient{cc: cc}
}

func (c *StorageRPCClient) Invoke(ctx context.Context, msg *message.Message, opts ...grpc.CallOption) (*message.Response, error) {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return nil, err
	}
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Invoke", wrapperspb.Bytes(payload), out, opts...); err != nil {
		return nil, err
	}
	return DecodeResponse(out.GetValue())
}
