package infrastructure

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"qrMenu/internal/modules/uploads/domain"
	"qrMenu/internal/platform/apiclient"
)

// UploadAPI sends files to the backend as multipart forms.
type UploadAPI struct {
	client *apiclient.Client
}

func NewUploadAPI(client *apiclient.Client) *UploadAPI {
	return &UploadAPI{client: client}
}

// Image uploads a single image under the "image" field.
func (a *UploadAPI) Image(ctx context.Context, file domain.File) (domain.Result, error) {
	if err := file.ValidateImage(); err != nil {
		return domain.Result{}, err
	}
	return apiclient.Do[domain.Result](ctx, a.client, http.MethodPost, "/upload/image",
		apiclient.WithFile("image", file.Name, file.Content))
}

// Images uploads up to domain.MaxFiles images under the repeated "images" field.
func (a *UploadAPI) Images(ctx context.Context, files []domain.File) ([]domain.Result, error) {
	switch {
	case len(files) == 0:
		return nil, domain.ErrNoFiles
	case len(files) > domain.MaxFiles:
		return nil, domain.ErrTooManyFiles
	}
	opts := make([]apiclient.RequestOption, 0, len(files))
	for _, file := range files {
		if err := file.ValidateImage(); err != nil {
			return nil, err
		}
		opts = append(opts, apiclient.WithFile("images", file.Name, file.Content))
	}
	return apiclient.Do[[]domain.Result](ctx, a.client, http.MethodPost, "/upload/images", opts...)
}

// CSV uploads a sheet under the "csv" field and returns the server's parse of it.
func (a *UploadAPI) CSV(ctx context.Context, file domain.File) (domain.CSVPreview, error) {
	return apiclient.Do[domain.CSVPreview](ctx, a.client, http.MethodPost, "/upload/csv",
		apiclient.WithFile("csv", file.Name, file.Content))
}

func (a *UploadAPI) Delete(ctx context.Context, filename string) error {
	name := strings.TrimSpace(filename)
	if name == "" {
		return domain.ErrEmptyFilename
	}
	return a.client.Exec(ctx, http.MethodDelete, "/upload/"+url.PathEscape(name))
}
