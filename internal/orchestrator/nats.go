package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"keyforge/internal/crypto"
	"keyforge/internal/domain/key"
	"keyforge/internal/domain/natsaccount"
	"keyforge/internal/domain/natsoperator"
	"keyforge/internal/domain/natsuser"
	"keyforge/internal/events"
	"keyforge/internal/ids"
	"keyforge/internal/secret"
)

// ProvisionNatsOperator derives the trust-root signing key for one
// messaging-domain operator under the "nats-operator.<name>" purpose tag
// and activates its NatsOperator aggregate. This is the top of the
// three-tier trust chain (operator → account → user) that the cold-start
// manifest lets the messaging domain rebuild from the same passphrase.
func (o *Orchestrator) ProvisionNatsOperator(ctx context.Context, passphrase *secret.Text, name string) (ids.NatsOperatorID, error) {
	keyID, err := o.deriveNatsKey(ctx, passphrase, "nats-operator."+name)
	if err != nil {
		return "", err
	}
	at := o.now()
	operatorID := ids.NewNatsOperatorID()
	state := natsoperator.NewPlanned(operatorID, name, keyID, at)
	if err := o.persist(ctx, &events.NatsOperatorPlanned{OperatorID: operatorID, Name: name, PlannedAt: at}); err != nil {
		return "", err
	}
	state, err = state.Activate(at)
	if err != nil {
		return "", err
	}
	o.natsOperators[operatorID] = state
	if err := o.persist(ctx, &events.NatsOperatorActivated{OperatorID: operatorID, ActivatedAt: at}); err != nil {
		return "", err
	}
	o.log.Info("nats operator provisioned", zap.String("operator_id", string(operatorID)), zap.String("name", name))
	return operatorID, nil
}

// ProvisionNatsAccount derives a signing key for one account under its
// parent operator, scoped by the "nats-account.<operator>.<name>" purpose
// tag, and activates its NatsAccount aggregate.
func (o *Orchestrator) ProvisionNatsAccount(ctx context.Context, passphrase *secret.Text, operatorID ids.NatsOperatorID, name string) (ids.NatsAccountID, error) {
	if _, ok := o.natsOperators[operatorID]; !ok {
		return "", fmt.Errorf("orchestrator: nats operator %s not provisioned", operatorID)
	}
	keyID, err := o.deriveNatsKey(ctx, passphrase, "nats-account."+string(operatorID)+"."+name)
	if err != nil {
		return "", err
	}
	at := o.now()
	accountID := ids.NewNatsAccountID()
	state := natsaccount.NewPlanned(accountID, operatorID, name, keyID, at)
	if err := o.persist(ctx, &events.NatsAccountPlanned{AccountID: accountID, OperatorID: operatorID, Name: name, PlannedAt: at}); err != nil {
		return "", err
	}
	state, err = state.Activate(at)
	if err != nil {
		return "", err
	}
	o.natsAccounts[accountID] = state
	if err := o.persist(ctx, &events.NatsAccountActivated{AccountID: accountID, ActivatedAt: at}); err != nil {
		return "", err
	}
	o.log.Info("nats account provisioned", zap.String("account_id", string(accountID)), zap.String("operator_id", string(operatorID)))
	return accountID, nil
}

// ProvisionNatsUser derives the leaf credential key for one user under
// its parent account, scoped by the "nats-user.<account>.<name>" purpose
// tag, and activates its NatsUser aggregate.
func (o *Orchestrator) ProvisionNatsUser(ctx context.Context, passphrase *secret.Text, accountID ids.NatsAccountID, name string) (ids.NatsUserID, error) {
	if _, ok := o.natsAccounts[accountID]; !ok {
		return "", fmt.Errorf("orchestrator: nats account %s not provisioned", accountID)
	}
	keyID, err := o.deriveNatsKey(ctx, passphrase, "nats-user."+string(accountID)+"."+name)
	if err != nil {
		return "", err
	}
	at := o.now()
	userID := ids.NewNatsUserID()
	state := natsuser.NewPlanned(userID, accountID, keyID, at)
	if err := o.persist(ctx, &events.NatsUserPlanned{UserID: userID, AccountID: accountID, PlannedAt: at}); err != nil {
		return "", err
	}
	state, err = state.Activate(at)
	if err != nil {
		return "", err
	}
	o.natsUsers[userID] = state
	if err := o.persist(ctx, &events.NatsUserActivated{UserID: userID, ActivatedAt: at}); err != nil {
		return "", err
	}
	o.log.Info("nats user provisioned", zap.String("user_id", string(userID)), zap.String("account_id", string(accountID)))
	return userID, nil
}

// deriveNatsKey derives and activates a CryptographicKey for one
// messaging-domain credential, sharing the same deterministic seed
// derivation and Key aggregate machinery the PKI side uses — a NATS
// operator/account/user key is seed-derived exactly like a signing key,
// just under an Ed25519-only, non-X.509 purpose tag.
func (o *Orchestrator) deriveNatsKey(ctx context.Context, passphrase *secret.Text, purposeTag string) (ids.KeyID, error) {
	seed, err := crypto.DeriveSeed(passphrase, o.orgID, purposeTag, o.kdfParams)
	if err != nil {
		return "", err
	}
	kp, err := crypto.GenerateKeyPair(seed, crypto.Ed25519)
	if err != nil {
		return "", err
	}
	pub, err := publicKeyBytes(kp)
	if err != nil {
		return "", err
	}
	at := o.now()
	keyID := ids.NewKeyID()
	keyState := key.NewGenerated(keyID, kp.Algorithm.String(), purposeTag, pub, at)
	if err := o.persist(ctx, &events.KeyGenerated{KeyID: keyID, Algorithm: kp.Algorithm.String(), PurposeTag: purposeTag, PublicKey: pub, GeneratedAt: at}); err != nil {
		return "", err
	}
	keyState, err = keyState.Activate(at)
	if err != nil {
		return "", err
	}
	o.keys[keyID] = keyState
	o.keyPairs[keyID] = kp
	if err := o.persist(ctx, &events.KeyActivated{KeyID: keyID, ActivatedAt: at}); err != nil {
		return "", err
	}
	return keyID, nil
}
