package grpc

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/framekeeper/internal/api"
	"github.com/dmitrijs2005/framekeeper/internal/common"
	"github.com/dmitrijs2005/framekeeper/internal/dbx"
	"github.com/dmitrijs2005/framekeeper/internal/logging"
	"github.com/dmitrijs2005/framekeeper/internal/server/auth"
	"github.com/dmitrijs2005/framekeeper/internal/server/config"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/framekeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/framekeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/framekeeper/internal/server/services"
)

const testSecret = "secret"

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeUsers struct {
	regResp   *models.User
	regErr    error
	loginResp *services.LoginResult
	loginErr  error
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) (*models.User, error) {
	return f.regResp, f.regErr
}

func (f *fakeUsers) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	return f.loginResp, f.loginErr
}

type memStorage struct {
	uploadErr error
}

func (m *memStorage) Upload(_ context.Context, key string, body io.Reader, size int64, _ string, progress objectstore.ProgressFunc) (string, error) {
	var n int64
	buf := make([]byte, 4)
	for {
		k, err := body.Read(buf)
		n += int64(k)
		if k > 0 && progress != nil {
			progress(objectstore.Progress{BytesTransferred: n, TotalBytes: size})
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	return "http://s3/frames/" + key, nil
}

func (m *memStorage) Delete(context.Context, string) error { return nil }

type memItems struct {
	mu    sync.Mutex
	items []*models.Item
}

func (m *memItems) Save(_ context.Context, it *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, it)
	return nil
}

func (m *memItems) ListAll(context.Context) ([]*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Item{}, m.items...), nil
}

type fakeRepoManager struct{ it *memItems }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return nil }
func (m *fakeRepoManager) Items(dbx.DBTX) items.Repository              { return m.it }

// ---- harness ----

type harness struct {
	client  api.CatalogServiceClient
	users   *fakeUsers
	storage *memStorage
	items   *memItems
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{users: &fakeUsers{}, storage: &memStorage{}, items: &memItems{}}
	cfg := &config.Config{ImagePrefix: "Images", AlertDelay: time.Hour, SessionTTL: time.Hour, MaxSessions: 8}
	cs := services.NewCatalogService(nil, &fakeRepoManager{it: h.items}, h.storage, cfg, nopLogger{})
	t.Cleanup(cs.Close)

	srv := NewGRPCServer("bufnet", nopLogger{}, h.users, cs, testSecret)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	h.client = api.NewCatalogServiceClient(conn)
	return h
}

func authed(t *testing.T, userID, name string) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(userID, name, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}

func ptr(s string) *string { return &s }

func upload(t *testing.T, ctx context.Context, c api.CatalogServiceClient, name string, data []byte) ([]*api.UploadImageResponse, error) {
	t.Helper()
	stream, err := c.UploadImage(ctx)
	require.NoError(t, err)

	// Send returns io.EOF once the server has ended the stream; the status
	// then comes from Recv.
	send := func(req *api.UploadImageRequest) {
		if err := stream.Send(req); err != nil && !errors.Is(err, io.EOF) {
			t.Fatalf("send: %v", err)
		}
	}
	send(&api.UploadImageRequest{FileName: name, Size: int64(len(data)), ContentType: "image/png", Chunk: data[:len(data)/2]})
	send(&api.UploadImageRequest{Chunk: data[len(data)/2:]})
	require.NoError(t, stream.CloseSend())

	var out []*api.UploadImageResponse
	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, msg)
	}
}

// ---- tests ----

func TestPing_NoTokenNeeded(t *testing.T) {
	h := newHarness(t)

	var header metadata.MD
	resp, err := h.client.Ping(context.Background(), &api.PingRequest{}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
	assert.NotEmpty(t, header.Get(common.RequestIDHeaderName))
}

func TestRequestID_Echoed(t *testing.T) {
	h := newHarness(t)

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.RequestIDHeaderName, "req-1")
	var header metadata.MD
	_, err := h.client.GetReference(ctx, &api.GetReferenceRequest{}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-1"}, header.Get(common.RequestIDHeaderName))
}

func TestGetReference(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.GetReference(context.Background(), &api.GetReferenceRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Categories)
	assert.NotEmpty(t, resp.Colors)
	assert.NotEmpty(t, resp.Dimensions)
}

func TestProtectedMethods_RequireToken(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.GetForm(context.Background(), &api.GetFormRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "garbage")
	_, err = h.client.ListItems(bad, &api.ListItemsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = upload(t, context.Background(), h.client, "a.png", []byte("abcd"))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestExpiredToken(t *testing.T) {
	h := newHarness(t)

	tok, err := auth.GenerateToken("u-1", "alice", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)

	_, err = h.client.GetForm(ctx, &api.GetFormRequest{})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "token expired", st.Message())
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.users.regResp = &models.User{ID: "u-1", UserName: "alice"}
	resp, err := h.client.Register(ctx, &api.RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.UserID)

	h.users.regErr = common.ErrorAlreadyExists
	_, err = h.client.Register(ctx, &api.RegisterRequest{Username: "alice", Password: "pw"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	h.users.loginErr = common.ErrorUnauthorized
	_, err = h.client.Login(ctx, &api.LoginRequest{Username: "alice", Password: "bad"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	h.users.loginErr = nil
	h.users.loginResp = &services.LoginResult{AccessToken: "tok", User: &models.User{ID: "u-1"}}
	lr, err := h.client.Login(ctx, &api.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", lr.AccessToken)
	assert.Equal(t, "u-1", lr.UserID)
}

func TestFormFlow_DeskLamp(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1", "alice")

	st, err := h.client.UpdateForm(ctx, &api.UpdateFormRequest{Title: ptr("Desk Lamp"), Category: ptr("table"), Color: ptr("black")})
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", st.Title)
	assert.Equal(t, "table", st.Category)
	assert.Equal(t, "black", st.Color)

	msgs, err := upload(t, ctx, h.client, "lamp.png", []byte("0123456789abcdef"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(msgs), 2)

	last := msgs[len(msgs)-1]
	require.NotNil(t, last.Form)
	assert.Contains(t, last.ImageURL, "http://s3/frames/Images/")
	assert.Equal(t, last.ImageURL, last.Form.ImageURL)
	assert.False(t, last.Form.Busy)
	assert.Equal(t, "Image uploaded successfully", last.Form.Alert.Message)
	for _, m := range msgs[:len(msgs)-1] {
		require.NotNil(t, m.Progress)
	}
	assert.Equal(t, 100.0, msgs[len(msgs)-2].Progress.Percent)

	saved, err := h.client.SaveDetails(ctx, &api.SaveDetailsRequest{})
	require.NoError(t, err)
	require.NotNil(t, saved.Item)
	assert.Equal(t, "Desk Lamp", saved.Item.Title)
	assert.Equal(t, "table", saved.Item.Category)
	assert.Equal(t, "black", saved.Item.Color)
	assert.Equal(t, last.ImageURL, saved.Item.ImageURL)
	assert.Equal(t, "u-1", saved.Item.CreatedBy)
	assert.Empty(t, saved.Form.Title)
	assert.Empty(t, saved.Form.ImageURL)
	assert.Equal(t, "Data Uploaded successfully", saved.Form.Alert.Message)

	list, err := h.client.ListItems(ctx, &api.ListItemsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, saved.Item.ID, list.Items[0].ID)
}

func TestUpload_SecondImageRejected(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1", "alice")

	_, err := upload(t, ctx, h.client, "a.png", []byte("abcd"))
	require.NoError(t, err)

	_, err = upload(t, ctx, h.client, "b.png", []byte("efgh"))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	st, err := h.client.DeleteImage(ctx, &api.DeleteImageRequest{})
	require.NoError(t, err)
	assert.Empty(t, st.ImageURL)
	assert.Equal(t, "Image deleted successfully", st.Alert.Message)

	_, err = upload(t, ctx, h.client, "b.png", []byte("efgh"))
	require.NoError(t, err)
}

func TestUpload_BackendFailure(t *testing.T) {
	h := newHarness(t)
	h.storage.uploadErr = errors.New("network down")
	ctx := authed(t, "u-1", "alice")

	_, err := upload(t, ctx, h.client, "a.png", []byte("abcd"))
	assert.Equal(t, codes.Unavailable, status.Code(err))

	st, err := h.client.GetForm(ctx, &api.GetFormRequest{})
	require.NoError(t, err)
	assert.Empty(t, st.ImageURL)
	assert.False(t, st.Busy)
	assert.Equal(t, api.Alert{Visible: true, Message: "Error while uploading : Try AGain", Severity: "danger"}, st.Alert)
}

func TestSaveDetails_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1", "alice")

	_, err := h.client.SaveDetails(ctx, &api.SaveDetailsRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	st, err := h.client.GetForm(ctx, &api.GetFormRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Required fields can't be empty", st.Alert.Message)
	assert.Empty(t, h.items.items)
}

func TestUpdateForm_UnknownCategory(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1", "alice")

	_, err := h.client.UpdateForm(ctx, &api.UpdateFormRequest{Category: ptr("sofa")})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSessions_ArePerUser(t *testing.T) {
	h := newHarness(t)
	alice := authed(t, "u-1", "alice")
	bob := authed(t, "u-2", "bob")

	_, err := h.client.UpdateForm(alice, &api.UpdateFormRequest{Title: ptr("Alice's")})
	require.NoError(t, err)

	st, err := h.client.GetForm(bob, &api.GetFormRequest{})
	require.NoError(t, err)
	assert.Empty(t, st.Title)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, &fakeUsers{}, nil, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, &fakeUsers{}, nil, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
