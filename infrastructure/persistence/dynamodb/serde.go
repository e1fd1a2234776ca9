package dynamodb

import (
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DecodeNewImage unmarshals the NewImage of a stream record into out
func DecodeNewImage(record events.DynamoDBEventRecord, out any) error {
	return DecodeStreamImage(record.Change.NewImage, out)
}

// DecodeStreamImage converts a Lambda stream image into SDK attribute
// values and unmarshals it into out. The Lambda runtime and the SDK ship
// distinct attribute value types, so stream payloads need this bridge
// before attributevalue can be used on them.
func DecodeStreamImage(image map[string]events.DynamoDBAttributeValue, out any) error {
	attrs := make(map[string]types.AttributeValue, len(image))
	for name, av := range image {
		converted, err := toSDKAttribute(av)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		attrs[name] = converted
	}
	return attributevalue.UnmarshalMap(attrs, out)
}

// EncodeItem marshals a Go value into SDK attribute values
func EncodeItem(item any) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(item)
}

func toSDKAttribute(av events.DynamoDBAttributeValue) (types.AttributeValue, error) {
	switch av.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: av.String()}, nil
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: av.Number()}, nil
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: av.Binary()}, nil
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: av.Boolean()}, nil
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: av.IsNull()}, nil
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: av.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: av.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: av.BinarySet()}, nil
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(av.List()))
		for i, item := range av.List() {
			converted, err := toSDKAttribute(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list = append(list, converted)
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case events.DataTypeMap:
		m := make(map[string]types.AttributeValue, len(av.Map()))
		for key, item := range av.Map() {
			converted, err := toSDKAttribute(item)
			if err != nil {
				return nil, fmt.Errorf("map key %q: %w", key, err)
			}
			m[key] = converted
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported attribute data type %v", av.DataType())
	}
}
