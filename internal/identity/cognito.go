package identity

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"loadestimator/internal/apperrors"
)

// CognitoProvider authenticates against an AWS Cognito user pool using
// the USER_PASSWORD_AUTH flow.
type CognitoProvider struct {
	client   *cip.Client
	clientID string
}

// NewCognitoProvider builds a provider from the default AWS credential
// chain.
func NewCognitoProvider(ctx context.Context, region, clientID string) (*CognitoProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &CognitoProvider{
		client:   cip.NewFromConfig(cfg),
		clientID: clientID,
	}, nil
}

func (p *CognitoProvider) SignUp(ctx context.Context, username, email, password string) error {
	_, err := p.client.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(username),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	return translateCognitoErr(err)
}

func (p *CognitoProvider) ConfirmSignUp(ctx context.Context, username, code string) error {
	_, err := p.client.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
	})
	return translateCognitoErr(err)
}

func (p *CognitoProvider) SignIn(ctx context.Context, username, password string) (*Session, error) {
	out, err := p.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId: aws.String(p.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, translateCognitoErr(err)
	}
	if out.AuthenticationResult == nil || out.AuthenticationResult.AccessToken == nil {
		return nil, apperrors.AuthFailure("no authentication result")
	}

	res := out.AuthenticationResult
	return &Session{
		Username:    username,
		AccessToken: aws.ToString(res.AccessToken),
		ExpiresAt:   time.Now().UTC().Add(time.Duration(res.ExpiresIn) * time.Second),
	}, nil
}

func (p *CognitoProvider) Authenticate(ctx context.Context, accessToken string) (string, error) {
	out, err := p.client.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return "", translateCognitoErr(err)
	}
	return aws.ToString(out.Username), nil
}

// translateCognitoErr maps Cognito API errors onto the app taxonomy so
// handlers never leak SDK error types.
func translateCognitoErr(err error) error {
	if err == nil {
		return nil
	}

	var notConfirmed *types.UserNotConfirmedException
	if errors.As(err, &notConfirmed) {
		return apperrors.NotConfirmed("email verification pending")
	}

	var notAuthorized *types.NotAuthorizedException
	var userNotFound *types.UserNotFoundException
	var badCode *types.CodeMismatchException
	var expiredCode *types.ExpiredCodeException
	if errors.As(err, &notAuthorized) || errors.As(err, &userNotFound) ||
		errors.As(err, &badCode) || errors.As(err, &expiredCode) {
		return apperrors.AuthFailure(err.Error())
	}

	var badParam *types.InvalidParameterException
	var badPassword *types.InvalidPasswordException
	var usernameExists *types.UsernameExistsException
	if errors.As(err, &badParam) || errors.As(err, &badPassword) ||
		errors.As(err, &usernameExists) {
		return apperrors.InvalidInput(err.Error())
	}

	return apperrors.PersistenceFailure(err)
}
