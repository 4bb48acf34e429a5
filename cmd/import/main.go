package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	sqlrepo "github.com/Roma7-7-7/story-learning/internal/dal/sql"
	"github.com/Roma7-7-7/story-learning/internal/data"
	"github.com/Roma7-7-7/story-learning/internal/generate"
)

var (
	source     string
	dbFile     string
	difficulty string
	genre      string
	aiFlag     bool
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	if err := validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	db, err := sqlrepo.OpenSQLite(ctx, dbFile)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(2)
	}
	defer db.Close()

	res, err := parse(source)
	if err != nil {
		var pErr *data.ParsingError
		if errors.As(err, &pErr) {
			fmt.Printf("vocabulary entries without a word: %v\n", pErr.InvalidEntries)
		} else {
			fmt.Printf("failed to parse story: %v\n", err)
		}
		os.Exit(3)
	}
	res.Difficulty = difficulty
	res.Genre = genre

	repo := sqlrepo.NewRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	id, err := repo.InsertStory(ctx, res.Story(time.Now(), aiFlag))
	if err != nil {
		fmt.Printf("failed to insert story: %v\n", err)
		os.Exit(4)
	}

	fmt.Printf("imported story %d with %d vocabulary items\n", id, len(res.Vocabulary))
}

func parse(path string) (*generate.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return data.Parse(f)
}

func validate() error {
	if source == "" {
		return errors.New("source file is required")
	}

	if dbFile == "" {
		return errors.New("database file is required")
	}

	if !generate.ValidDifficulty(difficulty) || difficulty == generate.Random {
		return fmt.Errorf("invalid difficulty: %s", difficulty)
	}

	if !generate.ValidGenre(genre) || genre == generate.Random {
		return fmt.Errorf("invalid genre: %s", genre)
	}

	return nil
}

func init() {
	flag.StringVar(&source, "source", "", "story JSON file")
	flag.StringVar(&dbFile, "db", "story-learning.db", "sqlite database file")
	flag.StringVar(&difficulty, "difficulty", generate.DefaultDifficulty, "story difficulty level")
	flag.StringVar(&genre, "genre", generate.DefaultGenre, "story genre")
	flag.BoolVar(&aiFlag, "ai", false, "mark the story as AI generated")
	flag.Parse()
}
