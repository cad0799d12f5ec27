package server

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/atlanticofertlog/cargo-docs/internal/citylocator"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/extract"
	"github.com/atlanticofertlog/cargo-docs/internal/gazetteer"
	"github.com/atlanticofertlog/cargo-docs/internal/pipeline"
	"github.com/atlanticofertlog/cargo-docs/internal/repository"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

const orderText = `PEDIDO DE VENDA
Nr. Pedido 4521
CLIENTE: FAZENDA BOA SORTE
ENDEREÇO RODOVIA BR 060 KM 12 RIO VERDE - GO
001234 : FERTILIZANTE XYZ BIG BAG 12,500`

type fileSource map[string]string

func (f fileSource) Extract(_ context.Context, path string) (extract.TextResult, error) {
	return extract.TextResult{Text: f[path], SourceType: "TXT", Method: "plain", Pages: 1, Confidence: 1}, nil
}

func startServer(t *testing.T) *ExtractionClient {
	t.Helper()
	ctx := context.Background()

	g := gazetteer.FromRows([]gazetteer.Row{
		{City: "Rio Verde", State: "GO", Code: "5218805"},
		{City: "São Paulo", State: "SP", Code: "3550308"},
	}, nil)
	r := rules.Default()
	engine := extract.NewEngine(r, citylocator.New(g, r.Locator, citylocator.FirstChooser{}, nil), nil)

	db, err := repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, nil) })
	jobs := repository.NewExtractJobRepository(db, nil)
	src := fileSource{"/srv/antt.txt": "Extrato RNTRC: 012345678"}
	proc := pipeline.NewProcessor(nil,
		pipeline.NewTextStage(jobs, src, nil),
		pipeline.NewExtractStage(jobs, engine, nil))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogging(zap.NewNop())))
	RegisterExtractionServer(srv, NewExtractionService(engine, proc, jobs, nil))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewExtractionClient(conn)
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestExtractOrder(t *testing.T) {
	client := startServer(t)

	resp, err := client.Extract(context.Background(), request(t, map[string]any{"kind": "ORDER", "text": orderText}))
	require.NoError(t, err)

	assert.Equal(t, "ORDER", resp.Fields["kind"].GetStringValue())
	assert.EqualValues(t, 1, resp.Fields["records"].GetNumberValue())
	items := resp.Fields["record"].GetListValue().GetValues()
	require.Len(t, items, 1)
	item := items[0].GetStructValue().GetFields()
	assert.Equal(t, "FAZENDA BOA SORTE", item["customer"].GetStringValue())
	assert.Equal(t, "4521", item["order_number"].GetStringValue())
	assert.Equal(t, "Rio Verde-GO", item["city"].GetStringValue())
	assert.Equal(t, 12.5, item["weight_tons"].GetNumberValue())
}

func TestExtractValidation(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	_, err := client.Extract(ctx, request(t, map[string]any{"kind": "INVOICE", "text": "x"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Extract(ctx, request(t, map[string]any{"kind": "CARRIER", "text": "  "}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestExtractCarrierNeedsReview(t *testing.T) {
	client := startServer(t)

	resp, err := client.Extract(context.Background(), request(t, map[string]any{"kind": "CARRIER", "text": "RNTRC 12"}))
	require.NoError(t, err)
	assert.True(t, resp.Fields["needs_review"].GetBoolValue())
	assert.NotEmpty(t, resp.Fields["review_reasons"].GetListValue().GetValues())
}

func TestProcessFileAndGetJob(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	resp, err := client.ProcessFile(ctx, request(t, map[string]any{"kind": "CARRIER", "path": "/srv/antt.txt"}))
	require.NoError(t, err)
	jobID := resp.Fields["job_id"].GetStringValue()
	require.NotEmpty(t, jobID)
	assert.Equal(t, "012345678", resp.Fields["record"].GetStructValue().GetFields()["rntrc"].GetStringValue())

	job, err := client.GetJob(ctx, request(t, map[string]any{"job_id": jobID}))
	require.NoError(t, err)
	assert.Equal(t, "EXTRACTED", job.Fields["status"].GetStringValue())
	assert.Equal(t, "/srv/antt.txt", job.Fields["source_path"].GetStringValue())
	assert.False(t, job.Fields["needs_review"].GetBoolValue())
	assert.Equal(t, "012345678", job.Fields["record"].GetStructValue().GetFields()["rntrc"].GetStringValue())
}

func TestGetJobErrors(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	_, err := client.GetJob(ctx, request(t, map[string]any{"job_id": "nope"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetJob(ctx, request(t, map[string]any{"job_id": "7f1c9a4e-3c1b-4a8e-9d55-1b2f0f7f2a10"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestToStatus(t *testing.T) {
	assert.Equal(t, codes.FailedPrecondition, status.Code(toStatus(citylocator.ErrNoChooser)))
	assert.Equal(t, codes.Canceled, status.Code(toStatus(context.Canceled)))
	assert.Equal(t, codes.InvalidArgument, status.Code(toStatus(common.NewAppError("X", "y", common.ErrUnsupported))))
	assert.Equal(t, codes.Internal, status.Code(toStatus(assert.AnError)))
}

func TestProcessFileBatchHeader(t *testing.T) {
	client := startServer(t)
	batch := "0b7d5e0c-8f7e-4a51-9a7c-2f4c3b1d6e90"
	ctx := metadata.AppendToOutgoingContext(context.Background(), BatchIDHeader, batch)

	resp, err := client.ProcessFile(ctx, request(t, map[string]any{"kind": "rntrc", "path": "/srv/antt.txt"}))
	require.NoError(t, err)

	job, err := client.GetJob(context.Background(), request(t, map[string]any{"job_id": resp.Fields["job_id"].GetStringValue()}))
	require.NoError(t, err)
	assert.Equal(t, batch, job.Fields["batch_id"].GetStringValue())
}
