package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dotriacontordle/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestIsNotLoadedByDefault() {
	s.False(s.service.IsLoaded())
	s.False(s.service.HasDictionary(6))
	s.Empty(s.service.LoadDictionary(6))
}

func (s *ServiceSuite) TestLoadWordsBucketsByLength() {
	err := s.service.LoadWords([]string{"castle", "DRAGON", "tree", "apple"})
	s.Require().NoError(err)

	s.True(s.service.IsLoaded())
	s.Equal([]string{"CASTLE", "DRAGON"}, s.service.LoadDictionary(6))
	s.Equal([]string{"TREE"}, s.service.LoadDictionary(4))
	s.Equal([]string{"APPLE"}, s.service.LoadDictionary(5))
	s.Equal([]int{4, 5, 6}, s.service.Lengths())
}

func (s *ServiceSuite) TestLoadWordsNormalizes() {
	err := s.service.LoadWords([]string{"Castle", "CASTLE", " castle ", "it's", "ab", "elevenchars", "cafe1"})
	s.Require().NoError(err)

	s.Equal([]string{"CASTLE"}, s.service.LoadDictionary(6))
	s.False(s.service.HasDictionary(2))
	s.False(s.service.HasDictionary(11))
	s.Equal(0, s.service.WordCount(5))
}

func (s *ServiceSuite) TestLoadWordsWithNothingUsable() {
	err := s.service.LoadWords([]string{"a", "b2"})
	s.ErrorIs(err, ErrDictionaryNotLoaded)
	s.False(s.service.IsLoaded())
}

func (s *ServiceSuite) TestIsValidWordCaseInsensitive() {
	_ = s.service.LoadWords([]string{"Castle"})

	s.True(s.service.IsValidWord("castle"))
	s.True(s.service.IsValidWord("CASTLE"))
	s.True(s.service.IsValidWord("CaStLe"))
	s.False(s.service.IsValidWord("castles"))
}

func (s *ServiceSuite) TestAddWordAcceptsGuessWithoutChangingAnswers() {
	_ = s.service.LoadWords([]string{"alpha", "gamma"})

	s.service.AddWord("beta1")
	s.service.AddWord("delta")
	s.service.AddWord("DELTA")
	s.service.AddWord("alpha")

	s.True(s.service.IsValidWord("delta"))
	s.False(s.service.IsValidWord("beta1"))
	s.Equal(1, s.service.LearnedCount())
	s.Equal([]string{"ALPHA", "GAMMA"}, s.service.LoadDictionary(5))
	s.Equal(2, s.service.WordCount(5))
}

func (s *ServiceSuite) TestLearnedWordsSurviveReload() {
	_ = s.service.LoadWords([]string{"alpha"})
	s.service.AddWord("delta")

	s.Require().NoError(s.service.LoadWords([]string{"gamma"}))
	s.True(s.service.IsValidWord("DELTA"))
	s.Equal([]string{"GAMMA"}, s.service.LoadDictionary(5))
}

func (s *ServiceSuite) TestLoadEmbedded() {
	s.Require().NoError(s.service.LoadEmbedded())

	for length := 4; length <= 10; length++ {
		s.True(s.service.HasDictionary(length), "length %d", length)
		s.GreaterOrEqual(s.service.WordCount(length), 128, "length %d", length)
	}
	s.True(s.service.IsValidWord("ACTION"))
	s.True(s.service.IsValidWord("CASTLE"))
}

func (s *ServiceSuite) TestLoadFromFile() {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(path, []byte("castle\ndragon bridge\n\ntree\n"), 0o644))

	s.Require().NoError(s.service.LoadFromFile(s.ctx, path))

	s.Equal([]string{"BRIDGE", "CASTLE", "DRAGON"}, s.service.LoadDictionary(6))
	s.Equal([]string{"TREE"}, s.service.LoadDictionary(4))
}

func (s *ServiceSuite) TestLoadFromFileMissing() {
	err := s.service.LoadFromFile(s.ctx, filepath.Join(s.T().TempDir(), "nope.txt"))
	s.Error(err)
}

func (s *ServiceSuite) TestLoadFromDirIgnoresOtherFiles() {
	dir := s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "6.txt"), []byte("castle dragon"), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "5.txt"), []byte("apple"), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored words here"), 0o644))

	s.Require().NoError(s.service.LoadFromDir(s.ctx, dir))

	s.Equal([]string{"CASTLE", "DRAGON"}, s.service.LoadDictionary(6))
	s.Equal([]string{"APPLE"}, s.service.LoadDictionary(5))
	s.False(s.service.IsValidWord("HERE"))
}

func (s *ServiceSuite) TestWatchReloadsChangedLists() {
	dir := s.T().TempDir()
	list := filepath.Join(dir, "6.txt")
	s.Require().NoError(os.WriteFile(list, []byte("castle"), 0o644))
	s.Require().NoError(s.service.LoadFromDir(s.ctx, dir))

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	s.Require().NoError(s.service.Watch(ctx, dir))

	s.Require().NoError(os.WriteFile(list, []byte("castle dragon"), 0o644))

	s.Eventually(func() bool {
		return s.service.IsValidWord("DRAGON")
	}, 5*time.Second, 20*time.Millisecond)
}
