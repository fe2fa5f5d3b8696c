// Package db keeps a log of realizations in DynamoDB.
package db

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
)

type Record struct {
	Id        uuid.UUID
	Title     string
	CreatedAt time.Time
	// YAML of the submitted and realized scores
	Input    string
	Output   string
	NumNotes uint64
}

type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func New(client dynamodbiface.DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

// Connect talks to a DynamoDB endpoint such as a local
// amazon/dynamodb-local container.
func Connect(endpoint, table string) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a DynamoDB session: %w", err)
	}
	return New(dynamodb.New(sess), table), nil
}

func Item(r Record) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(r.Id.String())},
		"CreatedAt": {S: aws.String(r.CreatedAt.UTC().Format(time.RFC3339Nano))},
		"Input":     {S: aws.String(r.Input)},
		"Output":    {S: aws.String(r.Output)},
		"NumNotes":  {N: aws.String(strconv.FormatUint(r.NumNotes, 10))},
	}
	// optional
	if r.Title != "" {
		item["Title"] = &dynamodb.AttributeValue{S: aws.String(r.Title)}
	}
	return item
}

func FromItem(item map[string]*dynamodb.AttributeValue) (Record, error) {
	var r Record
	if item["PK"] == nil || item["PK"].S == nil {
		return r, fmt.Errorf("item has no PK")
	}
	id, err := uuid.Parse(*item["PK"].S)
	if err != nil {
		return r, fmt.Errorf("bad record id: %w", err)
	}
	r.Id = id
	if v := item["Title"]; v != nil && v.S != nil {
		r.Title = *v.S
	}
	if v := item["CreatedAt"]; v != nil && v.S != nil {
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, *v.S)
		if err != nil {
			return r, fmt.Errorf("bad CreatedAt: %w", err)
		}
	}
	if v := item["Input"]; v != nil && v.S != nil {
		r.Input = *v.S
	}
	if v := item["Output"]; v != nil && v.S != nil {
		r.Output = *v.S
	}
	if v := item["NumNotes"]; v != nil && v.N != nil {
		r.NumNotes, _ = strconv.ParseUint(*v.N, 10, 64)
	}
	return r, nil
}

func (s *Store) SaveRealization(r Record) error {
	_, err := s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      Item(r),
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}

// GetRealization returns ok false when no record has the id.
func (s *Store) GetRealization(id uuid.UUID) (Record, bool, error) {
	out, err := s.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id.String())},
		},
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return Record{}, false, nil
	}
	r, err := FromItem(out.Item)
	return r, err == nil, err
}
