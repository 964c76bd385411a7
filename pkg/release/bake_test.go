package release

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/ec2info/pkg/release/mocks"
)

const testImageID = "ami-0abc1234def567890"

func describeImagesOutput(state types.ImageState) *ec2.DescribeImagesOutput {
	return &ec2.DescribeImagesOutput{
		Images: []types.Image{{ImageId: aws.String(testImageID), State: state}},
	}
}

func TestBaker_Bake(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEC2ImageAPI(ctrl)

	client.EXPECT().CreateImage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in *ec2.CreateImageInput, _ ...func(*ec2.Options)) (*ec2.CreateImageOutput, error) {
			assert.Equal(t, "i-0123456789abcdef0", aws.ToString(in.InstanceId))
			assert.Equal(t, "ec2info-20240102", aws.ToString(in.Name))
			assert.Equal(t, "metadata service", aws.ToString(in.Description))
			assert.True(t, aws.ToBool(in.NoReboot))

			require.Len(t, in.TagSpecifications, 1)
			assert.Equal(t, types.ResourceTypeImage, in.TagSpecifications[0].ResourceType)
			assert.ElementsMatch(t, []types.Tag{
				{Key: aws.String("Name"), Value: aws.String("ec2info")},
				{Key: aws.String("artifact"), Value: aws.String("ec2-metadata-app-20240102_030405.zip")},
			}, in.TagSpecifications[0].Tags)

			return &ec2.CreateImageOutput{ImageId: aws.String(testImageID)}, nil
		})

	img, err := NewBaker(client).Bake(context.Background(), BakeInput{
		InstanceID:  "i-0123456789abcdef0",
		Name:        "ec2info-20240102",
		Description: "metadata service",
		NoReboot:    true,
		Tags: map[string]string{
			"Name":     "ec2info",
			"artifact": "ec2-metadata-app-20240102_030405.zip",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, &Image{ID: testImageID, Name: "ec2info-20240102"}, img)
}

func TestBaker_BakeAndWait(t *testing.T) {
	tests := []struct {
		name    string
		state   types.ImageState
		wantErr bool
	}{
		{name: "image available", state: types.ImageStateAvailable},
		{name: "image failed", state: types.ImageStateFailed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockEC2ImageAPI(ctrl)

			client.EXPECT().CreateImage(gomock.Any(), gomock.Any()).
				Return(&ec2.CreateImageOutput{ImageId: aws.String(testImageID)}, nil)
			client.EXPECT().DescribeImages(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, in *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
					assert.Equal(t, []string{testImageID}, in.ImageIds)
					return describeImagesOutput(tt.state), nil
				})

			baker := NewBaker(client)
			baker.SetWaitTimeout(time.Minute)
			baker.SetWaiterOptions(func(o *ec2.ImageAvailableWaiterOptions) {
				o.MinDelay = time.Millisecond
				o.MaxDelay = 10 * time.Millisecond
			})

			img, err := baker.Bake(context.Background(), BakeInput{
				InstanceID: "i-0123456789abcdef0",
				Name:       "ec2info-20240102",
				Wait:       true,
			})
			require.NotNil(t, img)
			assert.Equal(t, testImageID, img.ID)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "wait for image "+testImageID)
				assert.False(t, img.Ready)
				return
			}
			require.NoError(t, err)
			assert.True(t, img.Ready)
		})
	}
}

func TestBaker_BakeErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     BakeInput
		createErr error
		sentinel  error
		contains  string
	}{
		{
			name:     "missing instance id",
			input:    BakeInput{Name: "img"},
			contains: "instance id is required",
		},
		{
			name:     "missing name",
			input:    BakeInput{InstanceID: "i-1"},
			contains: "image name is required",
		},
		{
			name:      "instance not found",
			input:     BakeInput{InstanceID: "i-1", Name: "img"},
			createErr: &smithy.GenericAPIError{Code: CodeInstanceNotFound, Message: "The instance ID 'i-1' does not exist"},
			sentinel:  ErrNotFound,
			contains:  "create image",
		},
		{
			name:      "duplicate name",
			input:     BakeInput{InstanceID: "i-1", Name: "img"},
			createErr: &smithy.GenericAPIError{Code: CodeDuplicateImageName, Message: "AMI name img is already in use"},
			sentinel:  ErrConflict,
			contains:  "create image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockEC2ImageAPI(ctrl)
			if tt.createErr != nil {
				client.EXPECT().CreateImage(gomock.Any(), gomock.Any()).Return(nil, tt.createErr)
			}

			img, err := NewBaker(client).Bake(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, img)
			assert.Contains(t, err.Error(), tt.contains)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}
