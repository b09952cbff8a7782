package mcpserver

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gregelin/photospeak/internal/clipservice"
	"github.com/gregelin/photospeak/internal/clipstore"
	"github.com/gregelin/photospeak/internal/photos"
	"github.com/gregelin/photospeak/internal/testutil"
)

func testServer(t *testing.T) (*Server, *clipstore.Store) {
	t.Helper()

	repo := testutil.TestRepo(t)
	store := clipstore.New(testutil.TestSlot(t), repo, testutil.Logger())
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	src := &testutil.FakeSource{
		AlbumList: []photos.Album{{ID: "a1", Title: "Trip", Count: 1}},
		PhotoList: []photos.Photo{{ID: "p1", Filename: "img.jpg"}},
	}
	svc := clipservice.NewService(src, store, repo, testutil.Logger())
	return New(svc), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_albums":
		result, err = srv.listAlbums(ctx, req)
	case "list_photos":
		result, err = srv.listPhotos(ctx, req)
	case "list_clips":
		result, err = srv.listClips(ctx, req)
	case "attach_audio":
		result, err = srv.attachAudio(ctx, req)
	case "save_recording":
		result, err = srv.saveRecording(ctx, req)
	case "remove_clip":
		result, err = srv.removeClip(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListAlbumsTool(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_albums", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Trip") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestSaveRecordingAndListClips(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "save_recording", map[string]interface{}{
		"photo":    "p1",
		"audio":    base64.StdEncoding.EncodeToString([]byte("rec")),
		"duration": 2.5,
	})
	if r.IsError {
		t.Fatalf("save_recording failed: %s", resultText(r))
	}
	if len(store.ClipsFor("p1")) != 1 {
		t.Fatal("clip not stored")
	}

	r = callTool(t, srv, "list_clips", map[string]interface{}{"photo": "p1"})
	if !strings.Contains(resultText(r), `"photoId": "p1"`) {
		t.Errorf("list result = %q", resultText(r))
	}
}

func TestSaveRecordingInvalidBase64(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "save_recording", map[string]interface{}{
		"photo": "p1",
		"audio": "!!! not base64 !!!",
	})
	if !r.IsError {
		t.Error("expected error for invalid base64")
	}
}

func TestAttachAudioTool(t *testing.T) {
	srv, store := testServer(t)

	src := filepath.Join(t.TempDir(), "voice.m4a")
	if err := os.WriteFile(src, []byte("imported"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "attach_audio", map[string]interface{}{
		"photo": "p1",
		"path":  src,
	})
	if r.IsError {
		t.Fatalf("attach_audio failed: %s", resultText(r))
	}
	if len(store.ClipsFor("p1")) != 1 {
		t.Error("clip not stored")
	}
}

func TestAttachAudioMissingFile(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "attach_audio", map[string]interface{}{
		"photo": "p1",
		"path":  filepath.Join(t.TempDir(), "nope.m4a"),
	})
	if !r.IsError {
		t.Error("expected error for missing file")
	}
}

func TestRemoveClipTool(t *testing.T) {
	srv, store := testServer(t)

	clip, err := store.SaveRecording("p1", []byte("x"), 1)
	if err != nil {
		t.Fatal(err)
	}
	r := callTool(t, srv, "remove_clip", map[string]interface{}{
		"photo": "p1",
		"clip":  clip.ID,
	})
	if r.IsError {
		t.Fatalf("remove_clip failed: %s", resultText(r))
	}
	if len(store.ClipsFor("p1")) != 0 {
		t.Error("clip not removed")
	}
}
