package fileserver

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		body   string
		want   string
	}{
		{
			name:   "ok",
			status: StatusOK,
			body:   "hello",
			want:   "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello",
		},
		{
			name:   "not found",
			status: StatusNotFound,
			body:   BodyNotFound,
			want:   "HTTP/1.1 404 NOT FOUND\r\nContent-Length: 29\r\n\r\nCould not find requested file",
		},
		{
			name:   "server error",
			status: StatusServerError,
			body:   BodyMethodUnsupported,
			want:   "HTTP/1.1 500 INTERNAL SERVER ERROR\r\nContent-Length: 18\r\n\r\nMethod unsupported",
		},
		{
			name:   "empty body",
			status: StatusOK,
			body:   "",
			want:   "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n",
		},
		{
			name:   "length counts bytes",
			status: StatusOK,
			body:   "ü\n",
			want:   "HTTP/1.1 200 OK\r\nContent-Length: 3\r\n\r\nü\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Format(tt.status, []byte(tt.body))); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	if StatusOK.String() != "Ok" || StatusNotFound.String() != "NotFound" || StatusServerError.String() != "ServerError" {
		t.Errorf("unexpected status names: %v %v %v", StatusOK, StatusNotFound, StatusServerError)
	}
}
