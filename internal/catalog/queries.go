package catalog

const sceneFields = `
	id
	title
	details
	release_date
	duration
	director
	code
	deleted
	studio { id name }
	images { id url width height }
	performers {
		as
		performer { id name disambiguation gender deleted }
	}
	tags { id name }
	fingerprints { algorithm hash duration submissions user_submitted }
	urls { url site { name icon } }
`

const findSceneQuery = `query Scene($id: ID!) {
	findScene(id: $id) {` + sceneFields + `}
}`

const pendingEditsCountQuery = `query PendingEditsCount($type: TargetTypeEnum!, $id: ID!, $operation: OperationEnum!) {
	queryEdits(input: {target_type: $type, target_id: $id, status: PENDING, operation: $operation}) {
		count
	}
}`

const sceneEditMutation = `mutation SceneEdit($sceneData: SceneEditInput!) {
	sceneEdit(input: $sceneData) {
		id
	}
}`

const meQuery = `query Me {
	me { id name }
}`
