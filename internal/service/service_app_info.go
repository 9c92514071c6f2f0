package service

import "context"

type appInfoService struct {
	version string
}

// NewAppInfoService constructs an [AppInfoService] reporting the build
// version stamped at link time.
func NewAppInfoService(version string) AppInfoService {
	return &appInfoService{version: version}
}

// GetAppVersion implements [AppInfoService].
func (s *appInfoService) GetAppVersion(_ context.Context) string {
	return s.version
}
