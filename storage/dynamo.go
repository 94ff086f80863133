package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/prognoshealth/employees/employee"
	"github.com/prognoshealth/employees/lambdautils"
)

const (
	keyAttribute   = "employee_id"
	ownerAttribute = "ownerId"

	conditionExists = "attribute_exists(employee_id)"
	conditionAbsent = "attribute_not_exists(employee_id)"
	conditionOwner  = "#owner = :owner"
)

// Dynamo stores employees in a single DynamoDB table keyed by employee_id.
//
// The underlying service client is created on first use and shared by every
// later call, including concurrent ones; it is never modified after creation.
type Dynamo struct {
	Region   string
	Endpoint string
	Table    string

	logger *zap.Logger

	once    sync.Once
	svc     dynamodbiface.DynamoDBAPI
	svcErr  error
	svcFunc func(client.ConfigProvider) dynamodbiface.DynamoDBAPI
}

// NewDynamo returns a store for table. Region and endpoint may be empty to
// use the sdk defaults.
func NewDynamo(region string, endpoint string, table string, logger *zap.Logger) *Dynamo {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dynamo{
		Region:   region,
		Endpoint: endpoint,
		Table:    table,
		logger:   logger,
	}
}

// client lazily builds the session and service client.
func (d *Dynamo) client() (dynamodbiface.DynamoDBAPI, error) {
	d.once.Do(func() {
		cfg := aws.NewConfig()
		if d.Region != "" {
			cfg = cfg.WithRegion(d.Region)
		}
		if d.Endpoint != "" {
			cfg = cfg.WithEndpoint(d.Endpoint)
		}

		s, err := session.NewSession(cfg)
		if err != nil {
			d.svcErr = errors.Wrap(err, "failed getting session")
			return
		}

		if d.svcFunc != nil {
			d.svc = d.svcFunc(s)
		} else {
			d.svc = dynamodb.New(s)
		}
	})

	return d.svc, d.svcErr
}

func (d *Dynamo) debug(ctx context.Context, operation string, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", operation), zap.String("table", d.Table))
	lambdautils.RequestLogger(ctx, d.logger).Debug("calling dynamodb", fields...)
}

// classify turns a rejected condition into employee.ErrConditionFailed and
// wraps anything else.
func classify(err error, format string, args ...interface{}) error {
	aerr, ok := err.(awserr.Error)
	if ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		return errors.Wrapf(employee.ErrConditionFailed, format, args...)
	}

	return errors.Wrapf(err, format, args...)
}

func keyOf(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		keyAttribute: {S: aws.String(id)},
	}
}

// putItemInput writes the full record only when the id is not taken yet.
func (d *Dynamo) putItemInput(e employee.Employee) (*dynamodb.PutItemInput, error) {
	item, err := dynamodbattribute.MarshalMap(e)
	if err != nil {
		return nil, errors.Wrapf(err, "failed marshalling employee %s", e.ID)
	}

	return &dynamodb.PutItemInput{
		TableName:           aws.String(d.Table),
		Item:                item,
		ConditionExpression: aws.String(conditionAbsent),
	}, nil
}

// Put implements employee.Store.
func (d *Dynamo) Put(ctx context.Context, e employee.Employee) error {
	svc, err := d.client()
	if err != nil {
		return err
	}

	input, err := d.putItemInput(e)
	if err != nil {
		return err
	}

	d.debug(ctx, "PutItem", zap.String("employee_id", e.ID))
	if _, err := svc.PutItemWithContext(ctx, input); err != nil {
		return classify(err, "failed put %v to %v", e.ID, d.Table)
	}

	return nil
}

// Get implements employee.Store.
func (d *Dynamo) Get(ctx context.Context, id string) (*employee.Employee, error) {
	svc, err := d.client()
	if err != nil {
		return nil, err
	}

	d.debug(ctx, "GetItem", zap.String("employee_id", id))
	out, err := svc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.Table),
		Key:       keyOf(id),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed get %v from %v", id, d.Table)
	}

	if len(out.Item) == 0 {
		return nil, nil
	}

	e := new(employee.Employee)
	if err := dynamodbattribute.UnmarshalMap(out.Item, e); err != nil {
		return nil, errors.Wrapf(err, "failed unmarshalling employee %s", id)
	}

	return e, nil
}

// updateItemInput builds a SET of the supplied fields plus updatedAt,
// conditional on the record existing and, with an owner, being owned by it.
func (d *Dynamo) updateItemInput(id string, changes employee.Changes, owner string) *dynamodb.UpdateItemInput {
	names := map[string]*string{"#updatedAt": aws.String("updatedAt")}
	values := map[string]*dynamodb.AttributeValue{
		":updatedAt": {S: aws.String(changes.UpdatedAt)},
	}

	var sets []string
	if changes.Name != nil {
		names["#n"] = aws.String("name")
		values[":name"] = &dynamodb.AttributeValue{S: aws.String(*changes.Name)}
		sets = append(sets, "#n = :name")
	}
	if changes.Role != nil {
		names["#r"] = aws.String("role")
		values[":role"] = &dynamodb.AttributeValue{S: aws.String(*changes.Role)}
		sets = append(sets, "#r = :role")
	}
	sets = append(sets, "#updatedAt = :updatedAt")

	condition := conditionExists
	if owner != "" {
		condition += " AND " + conditionOwner
		names["#owner"] = aws.String(ownerAttribute)
		values[":owner"] = &dynamodb.AttributeValue{S: aws.String(owner)}
	}

	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.Table),
		Key:                       keyOf(id),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              aws.String(dynamodb.ReturnValueAllNew),
	}
}

// Update implements employee.Store.
func (d *Dynamo) Update(ctx context.Context, id string, changes employee.Changes, owner string) (*employee.Employee, error) {
	svc, err := d.client()
	if err != nil {
		return nil, err
	}

	d.debug(ctx, "UpdateItem", zap.String("employee_id", id))
	out, err := svc.UpdateItemWithContext(ctx, d.updateItemInput(id, changes, owner))
	if err != nil {
		return nil, classify(err, "failed update %v in %v", id, d.Table)
	}

	e := new(employee.Employee)
	if err := dynamodbattribute.UnmarshalMap(out.Attributes, e); err != nil {
		return nil, errors.Wrapf(err, "failed unmarshalling employee %s", id)
	}

	return e, nil
}

// deleteItemInput requires existence and, with an owner, ownership in one
// condition.
func (d *Dynamo) deleteItemInput(id string, owner string) *dynamodb.DeleteItemInput {
	input := &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.Table),
		Key:                 keyOf(id),
		ConditionExpression: aws.String(conditionExists),
	}

	if owner != "" {
		input.ConditionExpression = aws.String(conditionExists + " AND " + conditionOwner)
		input.ExpressionAttributeNames = map[string]*string{"#owner": aws.String(ownerAttribute)}
		input.ExpressionAttributeValues = map[string]*dynamodb.AttributeValue{
			":owner": {S: aws.String(owner)},
		}
	}

	return input
}

// Delete implements employee.Store.
func (d *Dynamo) Delete(ctx context.Context, id string, owner string) error {
	svc, err := d.client()
	if err != nil {
		return err
	}

	d.debug(ctx, "DeleteItem", zap.String("employee_id", id))
	if _, err := svc.DeleteItemWithContext(ctx, d.deleteItemInput(id, owner)); err != nil {
		return classify(err, "failed delete %v from %v", id, d.Table)
	}

	return nil
}

// scanInput reads one page of at most limit items. DynamoDB applies the
// owner filter after the limit, so a filtered page may hold fewer items than
// the caller owns.
func (d *Dynamo) scanInput(owner string, limit int) *dynamodb.ScanInput {
	input := &dynamodb.ScanInput{
		TableName: aws.String(d.Table),
		Limit:     aws.Int64(int64(limit)),
	}

	if owner != "" {
		input.FilterExpression = aws.String(conditionOwner)
		input.ExpressionAttributeNames = map[string]*string{"#owner": aws.String(ownerAttribute)}
		input.ExpressionAttributeValues = map[string]*dynamodb.AttributeValue{
			":owner": {S: aws.String(owner)},
		}
	}

	return input
}

// List implements employee.Store.
func (d *Dynamo) List(ctx context.Context, owner string, limit int) ([]employee.Employee, error) {
	svc, err := d.client()
	if err != nil {
		return nil, err
	}

	d.debug(ctx, "Scan", zap.Int("limit", limit))
	out, err := svc.ScanWithContext(ctx, d.scanInput(owner, limit))
	if err != nil {
		return nil, errors.Wrapf(err, "failed scan of %v", d.Table)
	}

	items := make([]employee.Employee, 0, len(out.Items))
	if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, errors.Wrap(err, "failed unmarshalling employees")
	}

	return items, nil
}
