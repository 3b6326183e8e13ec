package domain

// ResourceType uses the provider's canonical type vocabulary, e.g. "AWS::EC2::Instance".
type ResourceType string

func (rt ResourceType) String() string {
	return string(rt)
}

// Tier orders deletion coarsely: compute first, account-level configuration last.
type Tier int

const (
	TierCompute    Tier = 1 // compute / application
	TierData       Tier = 2 // data / storage
	TierMessaging  Tier = 3 // messaging / events
	TierNetwork    Tier = 4 // networking
	TierConfig     Tier = 5 // config / metadata / global
	TierMin             = TierCompute
	TierMax             = TierConfig
)

const (
	// Tier 1: compute / application
	TypeEC2Instance             ResourceType = "AWS::EC2::Instance"
	TypeEC2LaunchTemplate       ResourceType = "AWS::EC2::LaunchTemplate"
	TypeLambdaFunction          ResourceType = "AWS::Lambda::Function"
	TypeLambdaEventSourceMap    ResourceType = "AWS::Lambda::EventSourceMapping"
	TypeECSService              ResourceType = "AWS::ECS::Service"
	TypeECSTaskDefinition       ResourceType = "AWS::ECS::TaskDefinition"
	TypeECSCluster              ResourceType = "AWS::ECS::Cluster"
	TypeEKSCluster              ResourceType = "AWS::EKS::Cluster"
	TypeEKSNodegroup            ResourceType = "AWS::EKS::Nodegroup"
	TypeAutoScalingGroup        ResourceType = "AWS::AutoScaling::AutoScalingGroup"
	TypeLaunchConfiguration     ResourceType = "AWS::AutoScaling::LaunchConfiguration"
	TypeBatchJobQueue           ResourceType = "AWS::Batch::JobQueue"
	TypeBatchComputeEnvironment ResourceType = "AWS::Batch::ComputeEnvironment"
	TypeAppRunnerService        ResourceType = "AWS::AppRunner::Service"
	TypeBeanstalkEnvironment    ResourceType = "AWS::ElasticBeanstalk::Environment"
	TypeSageMakerNotebook       ResourceType = "AWS::SageMaker::NotebookInstance"

	// Tier 2: data / storage
	TypeS3Bucket              ResourceType = "AWS::S3::Bucket"
	TypeEC2Volume             ResourceType = "AWS::EC2::Volume"
	TypeEC2Snapshot           ResourceType = "AWS::EC2::Snapshot"
	TypeRDSDBInstance         ResourceType = "AWS::RDS::DBInstance"
	TypeRDSDBCluster          ResourceType = "AWS::RDS::DBCluster"
	TypeRDSDBSnapshot         ResourceType = "AWS::RDS::DBSnapshot"
	TypeDynamoDBTable         ResourceType = "AWS::DynamoDB::Table"
	TypeEFSFileSystem         ResourceType = "AWS::EFS::FileSystem"
	TypeEFSMountTarget        ResourceType = "AWS::EFS::MountTarget"
	TypeElastiCacheCluster    ResourceType = "AWS::ElastiCache::CacheCluster"
	TypeElastiCacheRepGroup   ResourceType = "AWS::ElastiCache::ReplicationGroup"
	TypeRedshiftCluster       ResourceType = "AWS::Redshift::Cluster"
	TypeBackupVault           ResourceType = "AWS::Backup::BackupVault"
	TypeFSxFileSystem         ResourceType = "AWS::FSx::FileSystem"
	TypeECRRepository         ResourceType = "AWS::ECR::Repository"

	// Tier 3: messaging / events
	TypeSQSQueue              ResourceType = "AWS::SQS::Queue"
	TypeSNSTopic              ResourceType = "AWS::SNS::Topic"
	TypeSNSSubscription       ResourceType = "AWS::SNS::Subscription"
	TypeKinesisStream         ResourceType = "AWS::Kinesis::Stream"
	TypeFirehoseStream        ResourceType = "AWS::KinesisFirehose::DeliveryStream"
	TypeEventsRule            ResourceType = "AWS::Events::Rule"
	TypeMQBroker              ResourceType = "AWS::AmazonMQ::Broker"
	TypeStateMachine          ResourceType = "AWS::StepFunctions::StateMachine"
	TypeMSKCluster            ResourceType = "AWS::MSK::Cluster"
	TypeAppSyncAPI            ResourceType = "AWS::AppSync::GraphQLApi"

	// Tier 4: networking
	TypeEC2VPC                ResourceType = "AWS::EC2::VPC"
	TypeEC2Subnet             ResourceType = "AWS::EC2::Subnet"
	TypeEC2SecurityGroup      ResourceType = "AWS::EC2::SecurityGroup"
	TypeEC2InternetGateway    ResourceType = "AWS::EC2::InternetGateway"
	TypeEC2NatGateway         ResourceType = "AWS::EC2::NatGateway"
	TypeEC2RouteTable         ResourceType = "AWS::EC2::RouteTable"
	TypeEC2NetworkInterface   ResourceType = "AWS::EC2::NetworkInterface"
	TypeEC2EIP                ResourceType = "AWS::EC2::EIP"
	TypeEC2VPCEndpoint        ResourceType = "AWS::EC2::VPCEndpoint"
	TypeEC2PeeringConnection  ResourceType = "AWS::EC2::VPCPeeringConnection"
	TypeEC2TransitGateway     ResourceType = "AWS::EC2::TransitGateway"
	TypeELBLoadBalancer       ResourceType = "AWS::ElasticLoadBalancing::LoadBalancer"
	TypeELBv2LoadBalancer     ResourceType = "AWS::ElasticLoadBalancingV2::LoadBalancer"
	TypeELBv2TargetGroup      ResourceType = "AWS::ElasticLoadBalancingV2::TargetGroup"
	TypeAPIGatewayRestAPI     ResourceType = "AWS::ApiGateway::RestApi"
	TypeAPIGatewayV2API       ResourceType = "AWS::ApiGatewayV2::Api"
	TypeCloudFrontDist        ResourceType = "AWS::CloudFront::Distribution"
	TypeRoute53HostedZone     ResourceType = "AWS::Route53::HostedZone"
	TypeRoute53RecordSet      ResourceType = "AWS::Route53::RecordSet"
	TypeGlobalAccelerator     ResourceType = "AWS::GlobalAccelerator::Accelerator"

	// Tier 5: config / metadata / global
	TypeIAMUser               ResourceType = "AWS::IAM::User"
	TypeIAMRole               ResourceType = "AWS::IAM::Role"
	TypeIAMPolicy             ResourceType = "AWS::IAM::Policy"
	TypeIAMGroup              ResourceType = "AWS::IAM::Group"
	TypeIAMInstanceProfile    ResourceType = "AWS::IAM::InstanceProfile"
	TypeIAMAccessKey          ResourceType = "AWS::IAM::AccessKey"
	TypeKMSKey                ResourceType = "AWS::KMS::Key"
	TypeKMSAlias              ResourceType = "AWS::KMS::Alias"
	TypeSecretsManagerSecret  ResourceType = "AWS::SecretsManager::Secret"
	TypeSSMParameter          ResourceType = "AWS::SSM::Parameter"
	TypeCloudWatchAlarm       ResourceType = "AWS::CloudWatch::Alarm"
	TypeCloudWatchDashboard   ResourceType = "AWS::CloudWatch::Dashboard"
	TypeLogsLogGroup          ResourceType = "AWS::Logs::LogGroup"
	TypeEC2KeyPair            ResourceType = "AWS::EC2::KeyPair"
	TypeConfigRule            ResourceType = "AWS::Config::ConfigRule"
	TypeCloudTrailTrail       ResourceType = "AWS::CloudTrail::Trail"
	TypeSESIdentity           ResourceType = "AWS::SES::Identity"
	TypeCloudFormationStack   ResourceType = "AWS::CloudFormation::Stack"
	TypeACMCertificate        ResourceType = "AWS::CertificateManager::Certificate"
	TypeWAFWebACL             ResourceType = "AWS::WAFv2::WebACL"
)

// tierTable is the static type→tier assignment. It is never mutated at runtime;
// adding a resource type means adding a row here and providing an adapter.
var tierTable = map[ResourceType]Tier{
	TypeEC2Instance:             TierCompute,
	TypeEC2LaunchTemplate:       TierCompute,
	TypeLambdaFunction:          TierCompute,
	TypeLambdaEventSourceMap:    TierCompute,
	TypeECSService:              TierCompute,
	TypeECSTaskDefinition:       TierCompute,
	TypeECSCluster:              TierCompute,
	TypeEKSCluster:              TierCompute,
	TypeEKSNodegroup:            TierCompute,
	TypeAutoScalingGroup:        TierCompute,
	TypeLaunchConfiguration:     TierCompute,
	TypeBatchJobQueue:           TierCompute,
	TypeBatchComputeEnvironment: TierCompute,
	TypeAppRunnerService:        TierCompute,
	TypeBeanstalkEnvironment:    TierCompute,
	TypeSageMakerNotebook:       TierCompute,

	TypeS3Bucket:            TierData,
	TypeEC2Volume:           TierData,
	TypeEC2Snapshot:         TierData,
	TypeRDSDBInstance:       TierData,
	TypeRDSDBCluster:        TierData,
	TypeRDSDBSnapshot:       TierData,
	TypeDynamoDBTable:       TierData,
	TypeEFSFileSystem:       TierData,
	TypeEFSMountTarget:      TierData,
	TypeElastiCacheCluster:  TierData,
	TypeElastiCacheRepGroup: TierData,
	TypeRedshiftCluster:     TierData,
	TypeBackupVault:         TierData,
	TypeFSxFileSystem:       TierData,
	TypeECRRepository:       TierData,

	TypeSQSQueue:        TierMessaging,
	TypeSNSTopic:        TierMessaging,
	TypeSNSSubscription: TierMessaging,
	TypeKinesisStream:   TierMessaging,
	TypeFirehoseStream:  TierMessaging,
	TypeEventsRule:      TierMessaging,
	TypeMQBroker:        TierMessaging,
	TypeStateMachine:    TierMessaging,
	TypeMSKCluster:      TierMessaging,
	TypeAppSyncAPI:      TierMessaging,

	TypeEC2VPC:               TierNetwork,
	TypeEC2Subnet:            TierNetwork,
	TypeEC2SecurityGroup:     TierNetwork,
	TypeEC2InternetGateway:   TierNetwork,
	TypeEC2NatGateway:        TierNetwork,
	TypeEC2RouteTable:        TierNetwork,
	TypeEC2NetworkInterface:  TierNetwork,
	TypeEC2EIP:               TierNetwork,
	TypeEC2VPCEndpoint:       TierNetwork,
	TypeEC2PeeringConnection: TierNetwork,
	TypeEC2TransitGateway:    TierNetwork,
	TypeELBLoadBalancer:      TierNetwork,
	TypeELBv2LoadBalancer:    TierNetwork,
	TypeELBv2TargetGroup:     TierNetwork,
	TypeAPIGatewayRestAPI:    TierNetwork,
	TypeAPIGatewayV2API:      TierNetwork,
	TypeCloudFrontDist:       TierNetwork,
	TypeRoute53HostedZone:    TierNetwork,
	TypeRoute53RecordSet:     TierNetwork,
	TypeGlobalAccelerator:    TierNetwork,

	TypeIAMUser:              TierConfig,
	TypeIAMRole:              TierConfig,
	TypeIAMPolicy:            TierConfig,
	TypeIAMGroup:             TierConfig,
	TypeIAMInstanceProfile:   TierConfig,
	TypeIAMAccessKey:         TierConfig,
	TypeKMSKey:               TierConfig,
	TypeKMSAlias:             TierConfig,
	TypeSecretsManagerSecret: TierConfig,
	TypeSSMParameter:         TierConfig,
	TypeCloudWatchAlarm:      TierConfig,
	TypeCloudWatchDashboard:  TierConfig,
	TypeLogsLogGroup:         TierConfig,
	TypeEC2KeyPair:           TierConfig,
	TypeConfigRule:           TierConfig,
	TypeCloudTrailTrail:      TierConfig,
	TypeSESIdentity:          TierConfig,
	TypeCloudFormationStack:  TierConfig,
	TypeACMCertificate:       TierConfig,
	TypeWAFWebACL:            TierConfig,
}

// TierFor returns the deletion tier for a resource type. The second return is
// false for types the table does not know, which aborts planning upstream.
func TierFor(rt ResourceType) (Tier, bool) {
	t, ok := tierTable[rt]
	return t, ok
}

// KnownTypes returns every type in the tier table, for registry validation.
func KnownTypes() []ResourceType {
	types := make([]ResourceType, 0, len(tierTable))
	for rt := range tierTable {
		types = append(types, rt)
	}
	return types
}
