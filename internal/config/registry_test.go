package config

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fwehrmann/voxnote/pkg/provider/llm"
	llmmock "github.com/fwehrmann/voxnote/pkg/provider/llm/mock"
	"github.com/fwehrmann/voxnote/pkg/provider/stt"
	sttmock "github.com/fwehrmann/voxnote/pkg/provider/stt/mock"
)

func TestRegistryCreateLLM(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var gotEntry ProviderEntry
	reg.RegisterLLM("fake", func(entry ProviderEntry) (llm.Provider, error) {
		gotEntry = entry
		return &llmmock.Provider{}, nil
	})

	entry := ProviderEntry{Name: "fake", APIKey: "k", Model: "m"}
	p, err := reg.CreateLLM(entry)
	if err != nil {
		t.Fatalf("CreateLLM: %v", err)
	}
	if p == nil {
		t.Fatal("provider is nil")
	}
	if !reflect.DeepEqual(gotEntry, entry) {
		t.Errorf("factory received %+v, want %+v", gotEntry, entry)
	}
}

func TestRegistryUnregisteredName(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if _, err := reg.CreateLLM(ProviderEntry{Name: "nope"}); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("CreateLLM err = %v, want ErrProviderNotRegistered", err)
	}
	if _, err := reg.CreateSTT(ProviderEntry{Name: "nope"}); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("CreateSTT err = %v, want ErrProviderNotRegistered", err)
	}
	if _, err := reg.CreateEmbeddings(ProviderEntry{Name: "nope"}); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("CreateEmbeddings err = %v, want ErrProviderNotRegistered", err)
	}
}

func TestRegistryOverwrite(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	first := &sttmock.Provider{}
	second := &sttmock.Provider{}
	reg.RegisterSTT("whisper", func(ProviderEntry) (stt.Provider, error) { return first, nil })
	reg.RegisterSTT("whisper", func(ProviderEntry) (stt.Provider, error) { return second, nil })

	p, err := reg.CreateSTT(ProviderEntry{Name: "whisper"})
	if err != nil {
		t.Fatalf("CreateSTT: %v", err)
	}
	if p != second {
		t.Error("later registration should win")
	}
}

func TestRegistryFactoryError(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	wantErr := errors.New("bad options")
	reg.RegisterLLM("fake", func(ProviderEntry) (llm.Provider, error) { return nil, wantErr })

	if _, err := reg.CreateLLM(ProviderEntry{Name: "fake"}); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want factory error passed through", err)
	}
}
