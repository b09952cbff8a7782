// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the photo library and clip operations for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gregelin/photospeak/internal/clipservice"
)

// Server wraps the MCP server with PhotoSpeak tools.
type Server struct {
	mcp *server.MCPServer
	svc *clipservice.Service
}

// New creates a new MCP server with all PhotoSpeak tools registered.
func New(svc *clipservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"PhotoSpeak",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_albums",
		mcp.WithDescription("List all albums in the photo library."),
	), s.listAlbums)

	s.mcp.AddTool(mcp.NewTool("list_photos",
		mcp.WithDescription("List photos in the library or a specific album."),
		mcp.WithString("album", mcp.Description("Optional album id (empty for the whole library)")),
	), s.listPhotos)

	s.mcp.AddTool(mcp.NewTool("list_clips",
		mcp.WithDescription("List the audio clips attached to a photo, in attachment order."),
		mcp.WithString("photo", mcp.Required(), mcp.Description("Photo id")),
	), s.listClips)

	s.mcp.AddTool(mcp.NewTool("attach_audio",
		mcp.WithDescription("Attach an existing audio file (by filesystem path) to a photo."),
		mcp.WithString("photo", mcp.Required(), mcp.Description("Photo id")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the audio file")),
	), s.attachAudio)

	s.mcp.AddTool(mcp.NewTool("save_recording",
		mcp.WithDescription("Persist a finished voice recording (base64 audio bytes) for a photo."),
		mcp.WithString("photo", mcp.Required(), mcp.Description("Photo id")),
		mcp.WithString("audio", mcp.Required(), mcp.Description("Base64-encoded audio bytes")),
		mcp.WithNumber("duration", mcp.Description("Recording length in seconds")),
	), s.saveRecording)

	s.mcp.AddTool(mcp.NewTool("remove_clip",
		mcp.WithDescription("Remove an audio clip from a photo. Unknown ids are a no-op."),
		mcp.WithString("photo", mcp.Required(), mcp.Description("Photo id")),
		mcp.WithString("clip", mcp.Required(), mcp.Description("Clip id")),
	), s.removeClip)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listAlbums(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	albums, err := s.svc.Albums(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(albums, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPhotos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	albumID := ""
	if v, err := req.RequireString("album"); err == nil {
		albumID = v
	}
	items, err := s.svc.Photos(ctx, albumID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Strip thumbnail bytes; they are noise in a text transport.
	for i := range items {
		items[i].ThumbnailData = nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listClips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	photoID, err := req.RequireString("photo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clips := s.svc.Clips(ctx, photoID)
	out, _ := json.MarshalIndent(clips, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) attachAudio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	photoID, err := req.RequireString("photo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := openSourceFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer f.Close()

	res, err := s.svc.AttachUpload(ctx, photoID, path, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveRecording(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	photoID, err := req.RequireString("photo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded, err := req.RequireString("audio")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid base64 audio: %v", err)), nil
	}

	duration := 0.0
	if v, dErr := req.RequireFloat("duration"); dErr == nil {
		duration = v
	}

	res, err := s.svc.SaveRecording(ctx, photoID, raw, duration)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) removeClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	photoID, err := req.RequireString("photo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clipID, err := req.RequireString("clip")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.RemoveClip(ctx, photoID, clipID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed clip %s from photo %s", clipID, photoID)), nil
}
