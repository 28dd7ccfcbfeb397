package test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"kitchenwise.dev/api/internal/dynamodb/services"
)

const LOCAL_DDB_PORT = 8000

const LOCAL_DDB_JAR_ENV = "DYNAMODB_LOCAL_JAR"

// CreateTable provisions a table, and every index of the schema, in DynamoDB Local.
func CreateTable(client *dynamodb.Client, schema services.TableSchema) (string, error) {
	keySchema := func(pk, sk string) []types.KeySchemaElement {
		return []types.KeySchemaElement{
			{
				AttributeName: aws.String(pk),
				KeyType:       types.KeyTypeHash,
			},
			{
				AttributeName: aws.String(sk),
				KeyType:       types.KeyTypeRange,
			},
		}
	}
	defined := map[string]bool{schema.PartitionKey: true, schema.SortKey: true}
	var indexes []types.GlobalSecondaryIndex
	for name, index := range schema.Indexes {
		defined[index.PartitionKey] = true
		defined[index.SortKey] = true
		indexes = append(indexes, types.GlobalSecondaryIndex{
			IndexName: aws.String(name),
			KeySchema: keySchema(index.PartitionKey, index.SortKey),
			Projection: &types.Projection{
				ProjectionType: types.ProjectionTypeAll,
			},
		})
	}
	var attributes []types.AttributeDefinition
	for name := range defined {
		attributes = append(attributes, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(schema.TableName),
		KeySchema:            keySchema(schema.PartitionKey, schema.SortKey),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attributes,
	}
	if len(indexes) > 0 {
		input.GlobalSecondaryIndexes = indexes
	}
	output, err := client.CreateTable(context.TODO(), input)
	if err != nil {
		return "", err
	}
	waiter := dynamodb.NewTableExistsWaiter(client, func(tewo *dynamodb.TableExistsWaiterOptions) {
		tewo.LogWaitAttempts = true
	})
	_, err = waiter.WaitForOutput(context.TODO(), &dynamodb.DescribeTableInput{
		TableName: output.TableDescription.TableName,
	}, time.Second*5)
	return *output.TableDescription.TableName, err
}

func (l *LocalDynamoServer) CreateLocalClient() (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRetryMaxAttempts(10),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     "fake",
				SecretAccessKey: "fake",
				SessionToken:    "fake",
			}}),
	)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("http://localhost:%d", l.Port))
	}), nil
}

type LocalDynamoServer struct {
	Process *os.Process
	Port    int
}

// StartLocalServer launches DynamoDB Local from the jar named by
// DYNAMODB_LOCAL_JAR, skipping the test when it is unset.
func StartLocalServer(port int, t *testing.T) *LocalDynamoServer {
	jar := os.Getenv(LOCAL_DDB_JAR_ENV)
	if jar == "" {
		t.Skipf("%s is not set, skipping DynamoDB Local test", LOCAL_DDB_JAR_ENV)
	}
	cmd := exec.Command(
		"java", fmt.Sprintf("-Djava.library.path=%s", filepath.Join(filepath.Dir(jar), "DynamoDBLocal_lib")),
		"-jar", jar,
		"-port", strconv.Itoa(port),
		"-inMemory",
	)
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start local DDB server: %s", err)
	}
	t.Cleanup(func() {
		if err := cmd.Process.Kill(); err != nil {
			t.Fatalf("Failed to terminate local DDB server: %s", err)
		}
	})
	return &LocalDynamoServer{Port: port, Process: cmd.Process}
}
