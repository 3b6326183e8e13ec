// Package aws wires the SDK clients into the deletion adapter registry.
package aws

import (
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsdynamo "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	awsefs "github.com/aws/aws-sdk-go-v2/service/efs"
	awscache "github.com/aws/aws-sdk-go-v2/service/elasticache"
	awsiam "github.com/aws/aws-sdk-go-v2/service/iam"
	awskms "github.com/aws/aws-sdk-go-v2/service/kms"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awssecrets "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	awssts "github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/tayodev/snapback/internal/adapters/aws/account"
	"github.com/tayodev/snapback/internal/adapters/aws/cache"
	"github.com/tayodev/snapback/internal/adapters/aws/dynamo"
	"github.com/tayodev/snapback/internal/adapters/aws/ec2"
	"github.com/tayodev/snapback/internal/adapters/aws/efs"
	"github.com/tayodev/snapback/internal/adapters/aws/iam"
	"github.com/tayodev/snapback/internal/adapters/aws/kms"
	"github.com/tayodev/snapback/internal/adapters/aws/lambdafn"
	"github.com/tayodev/snapback/internal/adapters/aws/limiter"
	"github.com/tayodev/snapback/internal/adapters/aws/rds"
	"github.com/tayodev/snapback/internal/adapters/aws/s3"
	"github.com/tayodev/snapback/internal/adapters/aws/secrets"
	"github.com/tayodev/snapback/internal/adapters/aws/sns"
	"github.com/tayodev/snapback/internal/adapters/aws/sqs"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/core/service"
)

// Provider owns the SDK clients and the adapters built on them.
type Provider struct {
	Registry *service.AdapterRegistry
	Verifier *account.Verifier
}

// NewProvider initializes the shared rate limiter, builds one client per
// service from the resolved SDK config and registers every deletion adapter.
func NewProvider(cfg awssdk.Config, rps int, logger ports.Logger) (*Provider, error) {
	limiter.Initialize(rps, logger)
	gate := limiter.Global{}

	registry := service.NewAdapterRegistry()

	ec2Client := awsec2.NewFromConfig(cfg)
	iamClient := awsiam.NewFromConfig(cfg)
	lambdaClient := awslambda.NewFromConfig(cfg)
	rdsClient := awsrds.NewFromConfig(cfg)
	efsClient := awsefs.NewFromConfig(cfg)
	snsClient := awssns.NewFromConfig(cfg)
	kmsClient := awskms.NewFromConfig(cfg)

	adapters := []ports.ServiceAdapter{
		ec2.NewInstanceAdapter(ec2Client, gate, logger),
		ec2.NewLaunchTemplateAdapter(ec2Client, gate, logger),
		ec2.NewEBSSnapshotAdapter(ec2Client, gate, logger),
		ec2.NewNatGatewayAdapter(ec2Client, gate, logger),
		ec2.NewAddressAdapter(ec2Client, gate, logger),
		ec2.NewVPCEndpointAdapter(ec2Client, gate, logger),
		ec2.NewSecurityGroupAdapter(ec2Client, gate, logger),
		ec2.NewVolumeAdapter(ec2Client, gate, logger),
		ec2.NewVPCAdapter(ec2Client, gate, logger),
		ec2.NewSubnetAdapter(ec2Client, gate, logger),
		ec2.NewInternetGatewayAdapter(ec2Client, gate, logger),
		ec2.NewRouteTableAdapter(ec2Client, gate, logger),
		ec2.NewNetworkInterfaceAdapter(ec2Client, gate, logger),
		ec2.NewKeyPairAdapter(ec2Client, gate, logger),
		iam.NewUserAdapter(iamClient, gate, logger),
		iam.NewAccessKeyAdapter(iamClient, gate, logger),
		iam.NewRoleAdapter(iamClient, gate, logger),
		iam.NewPolicyAdapter(iamClient, gate, logger),
		iam.NewGroupAdapter(iamClient, gate, logger),
		iam.NewInstanceProfileAdapter(iamClient, gate, logger),
		s3.NewBucketAdapter(awss3.NewFromConfig(cfg), gate, logger),
		lambdafn.NewFunctionAdapter(lambdaClient, gate, logger),
		lambdafn.NewEventSourceMappingAdapter(lambdaClient, gate, logger),
		rds.NewInstanceAdapter(rdsClient, gate, logger),
		rds.NewClusterAdapter(rdsClient, gate, logger),
		kms.NewKeyAdapter(kmsClient, gate, logger),
		kms.NewAliasAdapter(kmsClient, gate, logger),
		secrets.NewSecretAdapter(awssecrets.NewFromConfig(cfg), gate, logger),
		sqs.NewQueueAdapter(awssqs.NewFromConfig(cfg), gate, logger),
		sns.NewTopicAdapter(snsClient, gate, logger),
		sns.NewSubscriptionAdapter(snsClient, gate, logger),
		dynamo.NewTableAdapter(awsdynamo.NewFromConfig(cfg), gate, logger),
		efs.NewFileSystemAdapter(efsClient, gate, logger),
		efs.NewMountTargetAdapter(efsClient, gate, logger),
		cache.NewClusterAdapter(awscache.NewFromConfig(cfg), gate, logger),
	}
	for _, a := range adapters {
		if err := registry.Register(a); err != nil {
			return nil, err
		}
	}

	verifier, err := account.NewVerifier(awssts.NewFromConfig(cfg), gate, logger)
	if err != nil {
		return nil, err
	}

	return &Provider{Registry: registry, Verifier: verifier}, nil
}
