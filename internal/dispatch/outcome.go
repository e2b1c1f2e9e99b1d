package dispatch

import "github.com/sdotee/desktop/internal/domain"

// Outcome is the single result delivered for an operation. Kind matches the
// submitted operation; Err is nil on success.
type Outcome interface {
	Kind() Kind
	Err() error
	outcome()
}

type ListLinkDomainsOutcome struct {
	Domains []string
	Error   error
}

type ListTextDomainsOutcome struct {
	Domains []string
	Error   error
}

type ListFileDomainsOutcome struct {
	Domains []string
	Error   error
}

type ShortenURLOutcome struct {
	Response *domain.ShortenResponse
	Error    error
}

type DeleteURLOutcome struct {
	Error error
}

type CreateTextOutcome struct {
	Response *domain.CreateTextResponse
	Error    error
}

type DeleteTextOutcome struct {
	Error error
}

type UploadFileOutcome struct {
	Response *domain.FileUploadResponse
	Error    error
}

type DeleteFileOutcome struct {
	Error error
}

// InvalidOutcome answers a nil operation
type InvalidOutcome struct {
	Error error
}

func (ListLinkDomainsOutcome) Kind() Kind { return KindListLinkDomains }
func (ListTextDomainsOutcome) Kind() Kind { return KindListTextDomains }
func (ListFileDomainsOutcome) Kind() Kind { return KindListFileDomains }
func (ShortenURLOutcome) Kind() Kind      { return KindShortenURL }
func (DeleteURLOutcome) Kind() Kind       { return KindDeleteURL }
func (CreateTextOutcome) Kind() Kind      { return KindCreateText }
func (DeleteTextOutcome) Kind() Kind      { return KindDeleteText }
func (UploadFileOutcome) Kind() Kind      { return KindUploadFile }
func (DeleteFileOutcome) Kind() Kind      { return KindDeleteFile }
func (InvalidOutcome) Kind() Kind         { return KindInvalid }

func (o ListLinkDomainsOutcome) Err() error { return o.Error }
func (o ListTextDomainsOutcome) Err() error { return o.Error }
func (o ListFileDomainsOutcome) Err() error { return o.Error }
func (o ShortenURLOutcome) Err() error      { return o.Error }
func (o DeleteURLOutcome) Err() error       { return o.Error }
func (o CreateTextOutcome) Err() error      { return o.Error }
func (o DeleteTextOutcome) Err() error      { return o.Error }
func (o UploadFileOutcome) Err() error      { return o.Error }
func (o DeleteFileOutcome) Err() error      { return o.Error }
func (o InvalidOutcome) Err() error         { return o.Error }

func (ListLinkDomainsOutcome) outcome() {}
func (ListTextDomainsOutcome) outcome() {}
func (ListFileDomainsOutcome) outcome() {}
func (ShortenURLOutcome) outcome()      {}
func (DeleteURLOutcome) outcome()       {}
func (CreateTextOutcome) outcome()      {}
func (DeleteTextOutcome) outcome()      {}
func (UploadFileOutcome) outcome()      {}
func (DeleteFileOutcome) outcome()      {}
func (InvalidOutcome) outcome()         {}

// failed builds the error outcome of op's kind
func failed(op Operation, err error) Outcome {
	switch op.(type) {
	case ListLinkDomains:
		return ListLinkDomainsOutcome{Error: err}
	case ListTextDomains:
		return ListTextDomainsOutcome{Error: err}
	case ListFileDomains:
		return ListFileDomainsOutcome{Error: err}
	case ShortenURL:
		return ShortenURLOutcome{Error: err}
	case DeleteURL:
		return DeleteURLOutcome{Error: err}
	case CreateText:
		return CreateTextOutcome{Error: err}
	case DeleteText:
		return DeleteTextOutcome{Error: err}
	case UploadFile:
		return UploadFileOutcome{Error: err}
	case DeleteFile:
		return DeleteFileOutcome{Error: err}
	default:
		return InvalidOutcome{Error: err}
	}
}
