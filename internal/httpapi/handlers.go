package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fwehrmann/voxnote/internal/enhance"
	"github.com/fwehrmann/voxnote/internal/notes"
	"github.com/fwehrmann/voxnote/pkg/provider/stt"
)

// maxAudioBytes caps the accepted recording size. Whisper-style APIs reject
// anything near 25 MB anyway.
const maxAudioBytes = 25 << 20

type rephraseRequest struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// noteResponse is the result of processing and persisting a voice note.
type noteResponse struct {
	Note       *notes.Note               `json:"note"`
	Rephrasing *enhance.RephrasingResult `json:"rephrasing"`
}

func (s *Server) rephrase(c echo.Context) error {
	var req rephraseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.pipeline.RephraseText(c.Request().Context(), req.Text, enhance.Tone(req.Tone))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) createNote(c echo.Context) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field 'audio' is required")
	}
	if fileHeader.Size > maxAudioBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("audio exceeds the %d MB limit", maxAudioBytes>>20))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("httpapi: open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxAudioBytes+1))
	if err != nil {
		return fmt.Errorf("httpapi: read upload: %w", err)
	}
	if len(data) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is empty")
	}

	audio := stt.Audio{
		Filename: fileHeader.Filename,
		MIME:     fileHeader.Header.Get(echo.HeaderContentType),
		Data:     data,
	}
	tone := enhance.NormalizeTone(c.FormValue("tone"))

	result, err := s.pipeline.ProcessAudio(c.Request().Context(), audio, tone)
	if err != nil {
		return err
	}

	note, err := s.store.Save(c.Request().Context(), notes.Note{
		Transcript:    result.Transcription.Text,
		Enhanced:      result.Rephrasing.RephrasedText,
		Tone:          string(result.Rephrasing.Tone),
		Intent:        string(result.Rephrasing.DetectedIntent),
		AudioDuration: result.Transcription.Duration,
	})
	if err != nil {
		return fmt.Errorf("httpapi: save note: %w", err)
	}
	s.metrics.RecordNoteSaved(c.Request().Context())

	return c.JSON(http.StatusCreated, noteResponse{
		Note:       note,
		Rephrasing: result.Rephrasing,
	})
}

func (s *Server) listNotes(c echo.Context) error {
	opts := notes.ListOpts{}
	var err error
	if opts.Limit, err = queryInt(c, "limit"); err != nil {
		return err
	}
	if opts.Offset, err = queryInt(c, "offset"); err != nil {
		return err
	}

	list, err := s.store.List(c.Request().Context(), opts)
	if err != nil {
		return fmt.Errorf("httpapi: list notes: %w", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) searchNotes(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'q' is required")
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	results, err := s.store.Search(c.Request().Context(), query, limit)
	if err != nil {
		return fmt.Errorf("httpapi: search notes: %w", err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) getNote(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	note, err := s.store.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	if err := s.store.Delete(c.Request().Context(), id); err != nil {
		return fmt.Errorf("httpapi: delete note: %w", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func noteID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid note id")
	}
	return id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("query parameter %q must be a non-negative integer", name))
	}
	return n, nil
}
