package sourceimage

import (
	"errors"
	"fmt"
	"github.com/mholt/archiver/v3"
	"github.com/sirupsen/logrus"
	"gitlab.com/woeusb/woeusb-flasher/internal/imagediscovery"
	"os"
)

var (
	ErrorValidation = errors.New("failed to validate source image")
	ErrorExtract    = errors.New("failed to extract source image")
)

type Config struct {
	ImagePath        string
	WorkingDirectory string
	Logger           *logrus.Logger
}

// SourceImage is the image handed to woeusb. Plain images are passed
// through untouched; archives are unpacked into the working directory first.
type SourceImage struct {
	imagePath        string
	workingDirectory string
	logger           *logrus.Logger
}

func New(config *Config) *SourceImage {
	return &SourceImage{
		imagePath:        config.ImagePath,
		workingDirectory: config.WorkingDirectory,
		logger:           config.Logger,
	}
}

// IsArchive reports whether path names an archive format that can be
// unpacked, judged by file extension.
func IsArchive(path string) bool {
	format, err := archiver.ByExtension(path)
	if err != nil {
		return false
	}
	_, ok := format.(archiver.Unarchiver)
	return ok
}

func (s *SourceImage) Validate() error {
	s.logger.WithFields(logrus.Fields{
		"imagePath": s.imagePath,
	}).Debug("running source image validation")
	if s.imagePath == "" {
		return fmt.Errorf("%w: no image selected", ErrorValidation)
	}
	info, err := os.Stat(s.imagePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrorValidation, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %v is not a regular file", ErrorValidation, s.imagePath)
	}
	return nil
}

// Prepare returns the path of the ISO to install from.
func (s *SourceImage) Prepare() (string, error) {
	err := s.Validate()
	if err != nil {
		return "", err
	}
	if !IsArchive(s.imagePath) {
		return s.imagePath, nil
	}
	if s.workingDirectory == "" {
		return "", fmt.Errorf("%w: no working directory for %v", ErrorExtract, s.imagePath)
	}

	s.logger.WithFields(logrus.Fields{
		"imagePath":        s.imagePath,
		"workingDirectory": s.workingDirectory,
	}).Info("extracting source image")
	err = archiver.Unarchive(s.imagePath, s.workingDirectory)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrorExtract, err)
	}

	iso, err := imagediscovery.Find(s.workingDirectory)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrorExtract, err)
	}
	s.logger.WithField("iso", iso).Debug("found image in archive")
	return iso, nil
}
