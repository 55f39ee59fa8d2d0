//go:build gomock || generate

package moqt

//go:generate sh -c "go run go.uber.org/mock/mockgen -build_flags=\"-tags=gomock\" -package moqt -self_package github.com/moqtools/moqt -destination mock_connection_test.go github.com/moqtools/moqt Connection"

//go:generate sh -c "go run go.uber.org/mock/mockgen -build_flags=\"-tags=gomock\" -package moqt -self_package github.com/moqtools/moqt -destination mock_send_stream_test.go github.com/moqtools/moqt SendStream"
